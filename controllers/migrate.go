package controllers

import (
	"github.com/HungNM1486/be-iot-farm-ptit/config"
	"github.com/HungNM1486/be-iot-farm-ptit/models"

	"gorm.io/gorm"
)

// MigrateModels runs the database migrations
func MigrateModels(db *gorm.DB) {
	config.DB = db
	db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.Plant{},
		&models.CareTask{},
		&models.AlertSetting{},
		&models.Notification{},
		&models.PlantImage{},
		&models.ImagePrediction{},
	)
}
