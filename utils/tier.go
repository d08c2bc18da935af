package utils

import (
	"errors"

	"edupay/models"
)

// Payment tiers. These are the only percentages a course can be bought at;
// anything else is rejected at validation time.
const (
	TierPartial30 = 30
	TierPartial50 = 50
	TierFull      = 100
)

// Video access sentinels stored on CourseAccess. Kept as strings because the
// mobile clients compare them directly.
const (
	VideoAccessFirst4 = "4"
	VideoAccessFirst8 = "8"
	VideoAccessAll    = "all"
)

// AccessAll means no limit on visible modules.
const AccessAll = -1

var (
	ErrInvalidTier  = errors.New("invalid payment tier")
	ErrInvalidState = errors.New("amount already paid exceeds course price")
)

// IsValidTier reports whether percentage is one of the three supported tiers.
func IsValidTier(percentage int) bool {
	return percentage == TierPartial30 || percentage == TierPartial50 || percentage == TierFull
}

// AmountForTier returns the amount due for a tier purchase of a course,
// rounding up so a partial payment never under-collects.
func AmountForTier(price uint, percentage int) (uint, error) {
	if !IsValidTier(percentage) {
		return 0, ErrInvalidTier
	}
	return (price*uint(percentage) + 99) / 100, nil
}

// VideoAccessForTier maps a paid percentage to the access sentinel. Total
// over the closed tier set; any other input is a validation error.
func VideoAccessForTier(percentage int) (string, error) {
	switch percentage {
	case TierPartial30:
		return VideoAccessFirst4, nil
	case TierPartial50:
		return VideoAccessFirst8, nil
	case TierFull:
		return VideoAccessAll, nil
	}
	return "", ErrInvalidTier
}

// BalanceDue returns the remaining amount to reach full payment.
func BalanceDue(price, alreadyPaid uint) (uint, error) {
	if alreadyPaid > price {
		return 0, ErrInvalidState
	}
	return price - alreadyPaid, nil
}

// AccessLimit returns how many modules a video access sentinel unlocks.
// AccessAll means unlimited; an unknown or empty sentinel (no entitlement)
// unlocks nothing.
func AccessLimit(videoAccess string) int {
	switch videoAccess {
	case VideoAccessFirst4:
		return 4
	case VideoAccessFirst8:
		return 8
	case VideoAccessAll:
		return AccessAll
	}
	return 0
}

// VisibleModules returns the modules the viewer may see. Gating is by the
// module's OrderIndex value, not its position in the slice, so a "4"
// entitlement hides every module numbered above 4 even when indexes are
// non-contiguous. Admin viewers bypass gating entirely.
func VisibleModules(modules []models.CourseModule, videoAccess string, isAdmin bool) []models.CourseModule {
	if isAdmin {
		return modules
	}
	limit := AccessLimit(videoAccess)
	if limit == AccessAll {
		return modules
	}
	visible := make([]models.CourseModule, 0, len(modules))
	for _, m := range modules {
		if m.OrderIndex <= limit {
			visible = append(visible, m)
		}
	}
	return visible
}
