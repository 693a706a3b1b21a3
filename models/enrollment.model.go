package models

import "gorm.io/gorm"

// Enrollment grants a user access to a course. Created by the payment webhook
// once a purchase completes; the unique index makes redelivery a no-op.
type Enrollment struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
}
