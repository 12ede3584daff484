package models

import "time"

// Notification types. Threshold alerts use "<metric>_alert" built from the
// metric kind, e.g. "temperature_alert".
const (
	NotificationDiseaseDetected  = "disease_detected"
	NotificationCareTaskReminder = "care_task_reminder"
)

// Notification is a persisted alert or reminder shown to the user and pushed
// to live websocket clients when it is created. Type and Message never change
// after creation; only Read/ReadAt do.
type Notification struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Type       string     `json:"type" gorm:"not null"`
	Message    string     `json:"message" gorm:"not null"`
	LocationID uint       `json:"location_id" gorm:"index"`
	SourceType string     `json:"source_type,omitempty"`
	SourceID   *uint      `json:"source_id,omitempty"`
	Read       bool       `json:"read" gorm:"default:false;index"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
}
