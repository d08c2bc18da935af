package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. VERIFIED, FAILED and EXPIRED are terminal; an order in a
// terminal state never transitions again and is never reused.
const (
	OrderStatusCreated          = "CREATED"
	OrderStatusAwaitingCallback = "AWAITING_CALLBACK"
	OrderStatusVerified         = "VERIFIED"
	OrderStatusFailed           = "FAILED"
	OrderStatusExpired          = "EXPIRED"
)

// PaymentOrder tracks one settlement attempt (initial or balance payment)
// against a course. One row per attempt, lifecycle independent of the
// gateway callback.
type PaymentOrder struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"index;not null"`
	CourseID       uint       `json:"course_id" gorm:"index;not null"`
	DomainID       uint       `json:"domain_id" gorm:"index"`
	PaidPercentage int        `json:"paid_percentage" gorm:"not null"` // requested tier: 30, 50 or 100
	Amount         uint       `json:"amount" gorm:"not null"`          // amount due, smallest currency unit
	Status         string     `json:"status" gorm:"default:'CREATED';index"`
	Receipt        string     `json:"receipt" gorm:"uniqueIndex"`         // our reference sent to the gateway
	GatewayOrderID string     `json:"gateway_order_id" gorm:"uniqueIndex"` // gateway-facing reference id
	PaymentID      string     `json:"payment_id"`                          // gateway payment id, set on verification
	ExpiresAt      *time.Time `json:"expires_at"`
	IsDeleted      bool       `gorm:"default:false"`
}

// IsTerminal reports whether the order has reached a final state.
func (o *PaymentOrder) IsTerminal() bool {
	return o.Status == OrderStatusVerified || o.Status == OrderStatusFailed || o.Status == OrderStatusExpired
}
