package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name      string     `json:"name" gorm:"default:''"`
	Email     string     `json:"email" gorm:"unique;not null"`
	Password  string     `json:"-" gorm:"not null"`
	Role      string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	PhotoURL  string     `json:"photo_url" gorm:"default:''"`
	LastLogin *time.Time `json:"last_login"`
	IsDeleted bool       `gorm:"default:false"`
}
