package models

import "gorm.io/gorm"

// Lecture belongs to exactly one course
type Lecture struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	Title         string `json:"title" gorm:"not null"`
	VideoURL      string `json:"video_url"`
	PublicID      string `json:"public_id"` // media store object id for the video
	IsPreviewFree bool   `json:"is_preview_free" gorm:"default:false"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
}
