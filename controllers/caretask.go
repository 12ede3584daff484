package controllers

import (
	"net/http"

	"github.com/HungNM1486/be-iot-farm-ptit/config"
	"github.com/HungNM1486/be-iot-farm-ptit/models"

	"github.com/gin-gonic/gin"
)

// CreateCareTask schedules a new care task on a plant.
func CreateCareTask(c *gin.Context) {
	var task models.CareTask
	if err := c.ShouldBindJSON(&task); err != nil || task.Name == "" || task.Type == "" || task.PlantID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, type, plant_id and scheduled_date are required"})
		return
	}
	if task.ScheduledDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, type, plant_id and scheduled_date are required"})
		return
	}

	var plant models.Plant
	if err := config.DB.First(&plant, task.PlantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
		return
	}

	if err := config.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create care task"})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetCareTasks lists care tasks, optionally filtered by plant_id, ordered by
// scheduled date.
func GetCareTasks(c *gin.Context) {
	query := config.DB.Order("scheduled_date asc")
	if plantID := c.Query("plant_id"); plantID != "" {
		query = query.Where("plant_id = ?", plantID)
	}

	var tasks []models.CareTask
	if err := query.Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch care tasks"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func GetCareTask(c *gin.Context) {
	var task models.CareTask
	if err := config.DB.First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Care task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateCareTask(c *gin.Context) {
	var task models.CareTask
	if err := config.DB.First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Care task not found"})
		return
	}

	var input models.CareTask
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Name != "" {
		task.Name = input.Name
	}
	if input.Type != "" {
		task.Type = input.Type
	}
	if !input.ScheduledDate.IsZero() {
		task.ScheduledDate = input.ScheduledDate
	}
	task.Note = input.Note
	task.Done = input.Done

	if err := config.DB.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update care task"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteCareTask(c *gin.Context) {
	var task models.CareTask
	if err := config.DB.First(&task, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Care task not found"})
		return
	}
	if err := config.DB.Delete(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete care task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Care task deleted successfully"})
}
