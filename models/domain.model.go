package models

import "gorm.io/gorm"

// Domain groups courses under a subject area
type Domain struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	IsDeleted   bool   `gorm:"default:false"`
}
