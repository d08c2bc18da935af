package models

import "gorm.io/gorm"

// CourseAccess is the entitlement record for a (user, course) pair: what the
// user has paid so far and which slice of the course they have unlocked.
// Created on the first verified order, written only by the payment callback
// reconciler, and monotonically non-decreasing in both PaidPercentage and
// AmountPaid. It is a projection of the user's VERIFIED orders and can be
// rebuilt from them at any time.
type CourseAccess struct {
	gorm.Model
	UserID         uint   `json:"user_id" gorm:"not null;uniqueIndex:ux_course_access_user_course,priority:1"`
	CourseID       uint   `json:"course_id" gorm:"not null;uniqueIndex:ux_course_access_user_course,priority:2"`
	DomainID       uint   `json:"domain_id" gorm:"index"`
	PaidPercentage int    `json:"paid_percentage" gorm:"not null"` // highest verified tier
	AmountPaid     uint   `json:"amount_paid" gorm:"not null"`     // sum of verified order amounts
	VideoAccess    string `json:"video_access" gorm:"not null"`    // "4", "8" or "all"; derived from PaidPercentage
	IsDeleted      bool   `gorm:"default:false"`
}
