package models

import "gorm.io/gorm"

// CourseProgress tracks a user's viewing state for one course.
// Completed is derived: true iff every lecture currently on the course has a
// viewed entry. It is recomputed on each view event against the live lecture
// count, so adding lectures to a course regresses completion.
type CourseProgress struct {
	gorm.Model
	UserID          uint              `json:"user_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID        uint              `json:"course_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	Completed       bool              `json:"completed" gorm:"default:false"`
	LectureProgress []LectureProgress `json:"lecture_progress" gorm:"foreignKey:CourseProgressID"`
}

// LectureProgress is one per-lecture viewed flag, appended lazily on first view
type LectureProgress struct {
	gorm.Model
	CourseProgressID uint `json:"-" gorm:"index;not null"`
	LectureID        uint `json:"lecture_id" gorm:"index;not null"`
	Viewed           bool `json:"viewed" gorm:"default:false"`
}
