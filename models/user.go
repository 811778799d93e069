package models

import (
	"time"
)

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null"`
	Email         string         `json:"email" gorm:"uniqueIndex;not null"`
	Password      string         `json:"-" gorm:"not null"`
	Role          string         `json:"role" gorm:"default:user"` // admin, user
	Status        string         `json:"status" gorm:"default:active;index"`
	LastLoginAt   *time.Time     `json:"last_login_at"`
	Notifications []Notification `json:"notifications,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
