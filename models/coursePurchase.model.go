package models

import "gorm.io/gorm"

const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
)

// CoursePurchase links a user, a course, an amount and a gateway checkout session.
// Amount is the quoted course price at checkout time; once the purchase is
// completed the gateway's settled amount overwrites it and becomes authoritative.
type CoursePurchase struct {
	gorm.Model
	CourseID  uint    `json:"course_id" gorm:"index;not null"`
	UserID    uint    `json:"user_id" gorm:"index;not null"`
	Amount    float64 `json:"amount" gorm:"not null"`
	Status    string  `json:"status" gorm:"default:'pending';index"` // pending, completed, failed
	PaymentID string  `json:"payment_id" gorm:"index"`               // gateway checkout session id, set once the session exists
	Course    Course  `json:"course,omitempty" gorm:"foreignKey:CourseID;references:ID"`
}
