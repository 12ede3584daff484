package controllers

import (
	"net/http"
	"strconv"

	"github.com/HungNM1486/be-iot-farm-ptit/config"
	"github.com/HungNM1486/be-iot-farm-ptit/services"

	"github.com/gin-gonic/gin"
)

// scopeFromQuery reads the optional location_id query parameter.
// Absent means the global scope.
func scopeFromQuery(c *gin.Context) (*uint, bool) {
	raw := c.Query("location_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, false
	}
	locationID := uint(id)
	return &locationID, true
}

// GetAlertSettings returns the thresholds that currently apply to the scope.
func GetAlertSettings(c *gin.Context) {
	locationID, ok := scopeFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid location_id"})
		return
	}

	setting, err := services.GetAlertSetting(config.DB, locationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load alert settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": setting})
}

// UpdateAlertSettings merges the supplied fields into the scope's thresholds.
// Fields not present in the body keep their current values.
func UpdateAlertSettings(c *gin.Context) {
	locationID, ok := scopeFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid location_id"})
		return
	}

	var patch services.AlertSettingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid settings payload"})
		return
	}

	setting, err := services.UpdateAlertSetting(config.DB, locationID, patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update alert settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    setting,
		"message": "Alert settings updated",
	})
}

type deviceConfigRequest struct {
	LocationCode string `json:"location_code"`
	Interval     *int   `json:"interval"`
	Calibrate    *bool  `json:"calibrate"`
}

// SendDeviceConfig forwards a config update to the device over MQTT.
func SendDeviceConfig(c *gin.Context) {
	var req deviceConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid config payload"})
		return
	}
	if req.LocationCode == "" {
		req.LocationCode = config.GlobalLocationCode()
	}

	cfg := services.SensorConfig{Interval: req.Interval, Calibrate: req.Calibrate}
	if err := gateway.SendSensorConfig(req.LocationCode, cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send config to device"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Config sent to device",
		"config":  cfg,
	})
}
