package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/HungNM1486/be-iot-farm-ptit/config"
	"github.com/HungNM1486/be-iot-farm-ptit/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UploadCameraImage receives an image from the ESP32-CAM, stores it and runs
// disease detection on it. The file must be attached as multipart field
// "image"; a missing file is rejected before any model work happens.
func UploadCameraImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No image file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read image file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Failed to read image file"})
		return
	}

	result, err := pipeline.HandleUpload(data, fileHeader.Filename)
	if errors.Is(err, services.ErrModelNotReady) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Prediction model is not ready"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to predict disease"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"imageUrl":     result.ImageURL,
		"imageId":      result.ImageID,
		"disease":      result.ClassName,
		"probability":  result.Confidence,
		"predictionId": result.PredictionID,
	})
}

// GetPrediction returns a stored image prediction.
func GetPrediction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid prediction id"})
		return
	}

	prediction, err := services.GetPredictionByID(config.DB, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Prediction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch prediction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "prediction": prediction})
}
