package models

import "time"

type Plant struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Img          string     `json:"img"`
	Status       string     `json:"status" gorm:"default:growing"`
	PlantingDate *time.Time `json:"planting_date"`
	HarvestDate  *time.Time `json:"harvest_date"`
	Note         string     `json:"note"`
	LocationID   uint       `json:"location_id" gorm:"not null;index"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
