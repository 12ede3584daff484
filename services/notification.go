package services

import (
	"time"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
	"gorm.io/gorm"
)

// Broadcaster pushes an event to all currently connected live clients.
// Implemented by ws.Hub.
type Broadcaster interface {
	Emit(event string, payload interface{})
}

const defaultUnreadLimit = 50

// CreateNotification persists a notification and then pushes it to live
// clients. The broadcast happens strictly after the write succeeds, so
// clients are never told about an alert that was not stored.
func CreateNotification(db *gorm.DB, hub Broadcaster, n *models.Notification) error {
	n.Read = false
	n.ReadAt = nil
	n.CreatedAt = time.Now()
	if err := db.Create(n).Error; err != nil {
		return err
	}
	if hub != nil {
		hub.Emit("notification", n)
	}
	return nil
}

// ListUnreadNotifications returns the most recent unread notifications,
// newest first. limit <= 0 uses the default cap.
func ListUnreadNotifications(db *gorm.DB, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultUnreadLimit
	}
	var notifications []models.Notification
	err := db.Where("read = ?", false).
		Order("created_at desc").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flags a notification as read and stamps ReadAt.
// Returns gorm.ErrRecordNotFound for an unknown id.
func MarkNotificationRead(db *gorm.DB, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := db.First(&n, id).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	if err := db.Save(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}
