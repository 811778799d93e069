package models

import (
	"time"
)

// Camera status values
const (
	CameraOnline      = "online"
	CameraOffline     = "offline"
	CameraMaintenance = "maintenance"
)

type Camera struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	RoomID    uint       `json:"room_id" gorm:"not null;index"`
	Name      string     `json:"name" gorm:"not null"`
	Code      string     `json:"code" gorm:"uniqueIndex;not null"`
	IPAddress string     `json:"ip_address" gorm:"not null;index"`
	RTSPUrl   string     `json:"rtsp_url" gorm:"not null"`
	HLSUrl    *string    `json:"hls_url"`
	Latitude  float64    `json:"latitude" gorm:"not null"`
	Longitude float64    `json:"longitude" gorm:"not null"`
	Status    string     `json:"status" gorm:"default:offline;index"` // online, offline, maintenance
	LastPing  *time.Time `json:"last_ping"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
