package controllers

import (
	"net/http"

	"github.com/HungNM1486/be-iot-farm-ptit/config"
	"github.com/HungNM1486/be-iot-farm-ptit/models"

	"github.com/gin-gonic/gin"
)

// CreatePlant adds a plant to an existing location.
func CreatePlant(c *gin.Context) {
	var plant models.Plant
	if err := c.ShouldBindJSON(&plant); err != nil || plant.Name == "" || plant.LocationID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant data"})
		return
	}

	var location models.Location
	if err := config.DB.First(&location, plant.LocationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	if err := config.DB.Create(&plant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plant"})
		return
	}
	c.JSON(http.StatusCreated, plant)
}

// GetPlants lists plants, optionally filtered by location_id.
func GetPlants(c *gin.Context) {
	query := config.DB.Order("created_at desc")
	if locationID := c.Query("location_id"); locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}

	var plants []models.Plant
	if err := query.Find(&plants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plants"})
		return
	}
	c.JSON(http.StatusOK, plants)
}

func GetPlant(c *gin.Context) {
	var plant models.Plant
	if err := config.DB.First(&plant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
		return
	}
	c.JSON(http.StatusOK, plant)
}

func UpdatePlant(c *gin.Context) {
	var plant models.Plant
	if err := config.DB.First(&plant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
		return
	}

	var input models.Plant
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Name != "" {
		plant.Name = input.Name
	}
	if input.Status != "" {
		plant.Status = input.Status
	}
	plant.Img = input.Img
	plant.Note = input.Note
	plant.PlantingDate = input.PlantingDate
	plant.HarvestDate = input.HarvestDate

	if err := config.DB.Save(&plant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plant"})
		return
	}
	c.JSON(http.StatusOK, plant)
}

// DeletePlant removes a plant and its care tasks.
func DeletePlant(c *gin.Context) {
	var plant models.Plant
	if err := config.DB.First(&plant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
		return
	}

	if err := config.DB.Where("plant_id = ?", plant.ID).Delete(&models.CareTask{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plant"})
		return
	}
	if err := config.DB.Delete(&plant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plant"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plant deleted successfully"})
}
