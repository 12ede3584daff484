package models

import "time"

// Location is a growing area monitored by one ESP32 node. The location_code
// is what the device puts in its MQTT topic, so it must be unique.
type Location struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	LocationCode string    `json:"location_code" gorm:"uniqueIndex;not null"`
	Description  string    `json:"description"`
	Area         string    `json:"area"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
