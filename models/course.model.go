package models

import "gorm.io/gorm"

// Course represents a marketplace course created by an instructor
type Course struct {
	gorm.Model
	Title        string    `json:"title" gorm:"not null"`
	SubTitle     string    `json:"sub_title"`
	Description  string    `json:"description" gorm:"type:text"`
	Category     string    `json:"category" gorm:"index;not null"`
	Level        string    `json:"level" gorm:"default:'Beginner'"` // Beginner, Medium, Advance
	Price        *float64  `json:"price"`                           // whole currency units (INR); nil until the instructor sets one
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatorID    uint      `json:"creator_id" gorm:"index"`
	IsPublished  bool      `json:"is_published" gorm:"default:false"`
	IsDeleted    bool      `gorm:"default:false"`
	Lectures     []Lecture `json:"lectures,omitempty" gorm:"foreignKey:CourseID"`
}
