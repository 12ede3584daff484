package controllers

import (
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"

	"github.com/HungNM1486/be-iot-farm-ptit/config"
	"github.com/HungNM1486/be-iot-farm-ptit/models"

	"github.com/gin-gonic/gin"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// generateLocationCode derives a unique-ish code from the name, e.g.
// "Khu A" -> "khu-a-285". Uniqueness is enforced by the DB index.
func generateLocationCode(name string) string {
	base := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	base = strings.Trim(base, "-")
	return fmt.Sprintf("%s-%03d", base, rand.Intn(1000))
}

// CreateLocation registers a new growing location for the current user.
func CreateLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var location models.Location
	if err := c.ShouldBindJSON(&location); err != nil || location.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location data"})
		return
	}

	location.UserID = userID
	if location.LocationCode == "" {
		location.LocationCode = generateLocationCode(location.Name)
	}

	if err := config.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Location code already exists"})
		return
	}
	c.JSON(http.StatusCreated, location)
}

// GetLocations lists the current user's locations.
func GetLocations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var locations []models.Location
	if err := config.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func GetLocation(c *gin.Context) {
	var location models.Location
	if err := config.DB.First(&location, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}
	c.JSON(http.StatusOK, location)
}

func UpdateLocation(c *gin.Context) {
	var location models.Location
	if err := config.DB.First(&location, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	var input models.Location
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Name != "" {
		location.Name = input.Name
	}
	location.Description = input.Description
	location.Area = input.Area

	if err := config.DB.Save(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}
	c.JSON(http.StatusOK, location)
}

// DeleteLocation removes a location together with its plants, care tasks,
// alert settings and notifications.
func DeleteLocation(c *gin.Context) {
	var location models.Location
	if err := config.DB.First(&location, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var plantIDs []uint
	if err := tx.Model(&models.Plant{}).Where("location_id = ?", location.ID).Pluck("id", &plantIDs).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
		return
	}

	if len(plantIDs) > 0 {
		if err := tx.Where("plant_id IN ?", plantIDs).Delete(&models.CareTask{}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
			return
		}
	}

	steps := []error{
		tx.Where("location_id = ?", location.ID).Delete(&models.Plant{}).Error,
		tx.Where("location_id = ?", location.ID).Delete(&models.AlertSetting{}).Error,
		tx.Where("location_id = ?", location.ID).Delete(&models.Notification{}).Error,
		tx.Delete(&location).Error,
	}
	for _, err := range steps {
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}
