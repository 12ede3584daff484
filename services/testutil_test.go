package services

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.Plant{},
		&models.CareTask{},
		&models.AlertSetting{},
		&models.Notification{},
		&models.PlantImage{},
		&models.ImagePrediction{},
	))
	return db
}

type emitted struct {
	Event   string
	Payload interface{}
}

// fakeHub records emitted events in order.
type fakeHub struct {
	events []emitted
}

func (f *fakeHub) Emit(event string, payload interface{}) {
	f.events = append(f.events, emitted{Event: event, Payload: payload})
}

func (f *fakeHub) count(event string) int {
	n := 0
	for _, e := range f.events {
		if e.Event == event {
			n++
		}
	}
	return n
}
