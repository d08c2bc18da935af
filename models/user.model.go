package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name      string    `gorm:"default:''"`
	Email     string    `gorm:"unique;not null"`
	Mobile    string    `gorm:"default:''"`
	Role      string    `gorm:"default:'USER'"` // USER, ADMIN
	Password  string    `gorm:"not null"`
	LastLogin time.Time `gorm:"default:NULL"`
	IsDeleted bool      `gorm:"default:false"`
}

// IsAdmin reports whether the user carries the administrative role.
// Content gating and admin-only routes key off this, never off request input.
func (u *User) IsAdmin() bool {
	return u.Role == "ADMIN"
}
