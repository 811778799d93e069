package models

import (
	"time"
)

// Notification types
const (
	NotificationLogin        = "login"
	NotificationMessage      = "message"
	NotificationSystem       = "system"
	NotificationCameraStatus = "camera_status"
)

type Notification struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"not null;index"`
	Title     string     `json:"title" gorm:"not null"`
	Message   string     `json:"message" gorm:"not null"`
	Type      string     `json:"type" gorm:"not null;index"` // login, message, system, camera_status
	ReadAt    *time.Time `json:"read_at"`
	Data      *string    `json:"data,omitempty"` // JSON payload, schema depends on type
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt time.Time  `json:"updated_at"`
}
