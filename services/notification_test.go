package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
)

func TestCreateNotificationBroadcastsAfterWrite(t *testing.T) {
	db := newTestDB(t)
	hub := &fakeHub{}

	n := &models.Notification{Type: "temperature_alert", Message: "Temperature too high", LocationID: 1}
	require.NoError(t, CreateNotification(db, hub, n))

	assert.NotZero(t, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
	require.Equal(t, 1, hub.count("notification"))

	// The broadcast payload is the stored record, ID included.
	payload, ok := hub.events[0].Payload.(*models.Notification)
	require.True(t, ok)
	assert.Equal(t, n.ID, payload.ID)
}

func TestListUnreadNotificationsOrderAndLimit(t *testing.T) {
	db := newTestDB(t)

	for i, msg := range []string{"first", "second", "third"} {
		n := models.Notification{
			Type:      "gas_alert",
			Message:   msg,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&n).Error)
	}
	read := models.Notification{Type: "gas_alert", Message: "seen", Read: true, CreatedAt: time.Now().Add(time.Hour)}
	require.NoError(t, db.Create(&read).Error)

	notifications, err := ListUnreadNotifications(db, 2)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "third", notifications[0].Message)
	assert.Equal(t, "second", notifications[1].Message)
}

func TestMarkNotificationRead(t *testing.T) {
	db := newTestDB(t)

	n := models.Notification{Type: "humidity_alert", Message: "Air humidity too low"}
	require.NoError(t, db.Create(&n).Error)

	updated, err := MarkNotificationRead(db, n.ID)
	require.NoError(t, err)
	assert.True(t, updated.Read)
	require.NotNil(t, updated.ReadAt)

	// Type and message are untouched by the acknowledgment.
	assert.Equal(t, "humidity_alert", updated.Type)
	assert.Equal(t, "Air humidity too low", updated.Message)
}

func TestMarkNotificationReadUnknownID(t *testing.T) {
	db := newTestDB(t)

	_, err := MarkNotificationRead(db, 12345)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var count int64
	db.Model(&models.Notification{}).Count(&count)
	assert.Zero(t, count)
}
