package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleInstructor UserRole = "INSTRUCTOR"
	RoleAdmin      UserRole = "ADMIN"
)

// User is reference data for this service; identity is owned by the
// surrounding platform and arrives through the request context.
type User struct {
	ID        string   `json:"id" gorm:"primaryKey;size:255"`
	Email     string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username  string   `json:"username" gorm:"uniqueIndex;not null;size:100"`
	FirstName *string  `json:"first_name" gorm:"size:100"`
	LastName  *string  `json:"last_name" gorm:"size:100"`
	Role      UserRole `json:"role" gorm:"default:USER;size:20"`
	Bio       *string  `json:"bio" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
