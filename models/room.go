package models

import (
	"time"
)

type Room struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	BuildingID  uint      `json:"building_id" gorm:"not null;uniqueIndex:idx_rooms_building_code"`
	Name        string    `json:"name" gorm:"not null"`
	Code        string    `json:"code" gorm:"not null;uniqueIndex:idx_rooms_building_code"`
	Description *string   `json:"description,omitempty"`
	Latitude    float64   `json:"latitude" gorm:"not null"`
	Longitude   float64   `json:"longitude" gorm:"not null"`
	Status      string    `json:"status" gorm:"default:active;index"` // active, inactive, maintenance
	Cameras     []Camera  `json:"cameras,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
