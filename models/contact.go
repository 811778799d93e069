package models

import (
	"time"
)

type Contact struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Title     string    `json:"title" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Phone     string    `json:"phone" gorm:"not null"`
	Whatsapp  *string   `json:"whatsapp"`
	Address   string    `json:"address" gorm:"not null"`
	Status    string    `json:"status" gorm:"default:active;index"` // active, inactive
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
