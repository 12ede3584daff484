package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/HungNM1486/be-iot-farm-ptit/config"
	"github.com/HungNM1486/be-iot-farm-ptit/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetUnreadNotifications lists unread notifications, newest first.
func GetUnreadNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	notifications, err := services.ListUnreadNotifications(config.DB, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": notifications})
}

// MarkNotificationRead acknowledges a notification.
func MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid notification id"})
		return
	}

	notification, err := services.MarkNotificationRead(config.DB, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Notification not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark notification as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": notification})
}
