package models

import "gorm.io/gorm"

// Course represents a purchasable learning course
type Course struct {
	gorm.Model
	DomainID    uint   `json:"domain_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Price       uint   `json:"price" gorm:"not null"` // smallest currency unit; existing orders keep the price they were created with
	Status      string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}

// CourseModule is a single content item within a course, ordered by OrderIndex
type CourseModule struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index" gorm:"not null"` // positive, unique per course
	IsPublished bool   `json:"is_published" gorm:"default:true"`
	IsDeleted   bool   `gorm:"default:false"`
}
