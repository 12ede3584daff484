package models

import "time"

// PlantImage is an image uploaded by the ESP32-CAM and stored on disk.
type PlantImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ImgURL    string    `json:"img_url" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// ImagePrediction is the classifier output for one image. Owned by the image
// it was computed from; immutable after creation.
type ImagePrediction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ImageID    uint      `json:"image_id" gorm:"not null;index"`
	ClassName  string    `json:"class_name" gorm:"not null"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}
