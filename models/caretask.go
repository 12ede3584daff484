package models

import "time"

// CareTask is a scheduled piece of work on a plant (watering, fertilizing...).
// The reminder scanner picks up tasks scheduled for the next day.
type CareTask struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	PlantID       uint      `json:"plant_id" gorm:"not null;index"`
	Name          string    `json:"name" gorm:"not null"`
	Type          string    `json:"type" gorm:"not null"`
	ScheduledDate time.Time `json:"scheduled_date" gorm:"not null;index"`
	Note          string    `json:"note"`
	Done          bool      `json:"done" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
