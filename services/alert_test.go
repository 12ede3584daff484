package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
)

func TestGetAlertSettingDefaults(t *testing.T) {
	db := newTestDB(t)

	setting, err := GetAlertSetting(db, nil)
	require.NoError(t, err)

	require.NotNil(t, setting.TemperatureMin)
	assert.Equal(t, 15.0, *setting.TemperatureMin)
	require.NotNil(t, setting.TemperatureMax)
	assert.Equal(t, 35.0, *setting.TemperatureMax)
	assert.Nil(t, setting.SoilMoistureMin)
	assert.Nil(t, setting.SoilMoistureMax)
}

func TestUpdateAlertSettingMergesPartial(t *testing.T) {
	db := newTestDB(t)

	_, err := UpdateAlertSetting(db, nil, AlertSettingPatch{
		TemperatureMin: f64(10),
		TemperatureMax: f64(30),
		GasMax:         f64(900),
	})
	require.NoError(t, err)

	// A later update with only gas_max must leave everything else alone.
	setting, err := UpdateAlertSetting(db, nil, AlertSettingPatch{GasMax: f64(500)})
	require.NoError(t, err)

	require.NotNil(t, setting.GasMax)
	assert.Equal(t, 500.0, *setting.GasMax)
	require.NotNil(t, setting.TemperatureMin)
	assert.Equal(t, 10.0, *setting.TemperatureMin)
	require.NotNil(t, setting.TemperatureMax)
	assert.Equal(t, 30.0, *setting.TemperatureMax)
	assert.Nil(t, setting.HumidityMin)
}

func TestUpdateAlertSettingCreatesOnFirstWrite(t *testing.T) {
	db := newTestDB(t)

	locationID := uint(7)
	setting, err := UpdateAlertSetting(db, &locationID, AlertSettingPatch{HumidityMin: f64(40)})
	require.NoError(t, err)

	require.NotNil(t, setting.LocationID)
	assert.Equal(t, locationID, *setting.LocationID)
	require.NotNil(t, setting.HumidityMin)
	assert.Equal(t, 40.0, *setting.HumidityMin)
	assert.Nil(t, setting.TemperatureMin)

	var count int64
	db.Model(&models.AlertSetting{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateAlertSettingAcceptsInvertedBounds(t *testing.T) {
	db := newTestDB(t)

	// min > max is stored as given, not corrected.
	setting, err := UpdateAlertSetting(db, nil, AlertSettingPatch{
		TemperatureMin: f64(50),
		TemperatureMax: f64(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, *setting.TemperatureMin)
	assert.Equal(t, 10.0, *setting.TemperatureMax)
}

func TestGetAlertSettingScopeFallback(t *testing.T) {
	db := newTestDB(t)

	_, err := UpdateAlertSetting(db, nil, AlertSettingPatch{TemperatureMax: f64(33)})
	require.NoError(t, err)

	scoped := uint(3)
	_, err = UpdateAlertSetting(db, &scoped, AlertSettingPatch{TemperatureMax: f64(28)})
	require.NoError(t, err)

	// Location with its own record gets the scoped thresholds.
	setting, err := GetAlertSetting(db, &scoped)
	require.NoError(t, err)
	assert.Equal(t, 28.0, *setting.TemperatureMax)

	// Location without one falls back to the global record.
	other := uint(99)
	setting, err = GetAlertSetting(db, &other)
	require.NoError(t, err)
	assert.Equal(t, 33.0, *setting.TemperatureMax)
}
