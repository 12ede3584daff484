package services

import (
	"errors"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
	"gorm.io/gorm"
)

func f64(v float64) *float64 { return &v }

// DefaultAlertSetting returns the built-in thresholds used before anyone has
// configured anything. Soil moisture is left unbounded: firmware that only
// reports air humidity should not trip soil alerts.
func DefaultAlertSetting() models.AlertSetting {
	return models.AlertSetting{
		TemperatureMin:    f64(15),
		TemperatureMax:    f64(35),
		HumidityMin:       f64(30),
		HumidityMax:       f64(80),
		LightIntensityMin: f64(300),
		LightIntensityMax: f64(800),
		GasMin:            f64(0),
		GasMax:            f64(1000),
	}
}

// GetAlertSetting resolves the thresholds that apply to a scope. A location
// scope falls back to the global record, which falls back to the defaults.
// locationID == nil asks for the global scope directly.
func GetAlertSetting(db *gorm.DB, locationID *uint) (models.AlertSetting, error) {
	var setting models.AlertSetting
	if locationID != nil {
		err := db.Where("location_id = ?", *locationID).First(&setting).Error
		if err == nil {
			return setting, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AlertSetting{}, err
		}
	}

	err := db.Where("location_id IS NULL").First(&setting).Error
	if err == nil {
		return setting, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultAlertSetting(), nil
	}
	return models.AlertSetting{}, err
}

// AlertSettingPatch is a partial threshold update. Only non-nil fields are
// applied; everything else keeps its stored value.
type AlertSettingPatch struct {
	TemperatureMin    *float64 `json:"temperature_min"`
	TemperatureMax    *float64 `json:"temperature_max"`
	HumidityMin       *float64 `json:"humidity_min"`
	HumidityMax       *float64 `json:"humidity_max"`
	SoilMoistureMin   *float64 `json:"soil_moisture_min"`
	SoilMoistureMax   *float64 `json:"soil_moisture_max"`
	LightIntensityMin *float64 `json:"light_intensity_min"`
	LightIntensityMax *float64 `json:"light_intensity_max"`
	GasMin            *float64 `json:"gas_min"`
	GasMax            *float64 `json:"gas_max"`
}

func (p AlertSettingPatch) apply(s *models.AlertSetting) {
	if p.TemperatureMin != nil {
		s.TemperatureMin = p.TemperatureMin
	}
	if p.TemperatureMax != nil {
		s.TemperatureMax = p.TemperatureMax
	}
	if p.HumidityMin != nil {
		s.HumidityMin = p.HumidityMin
	}
	if p.HumidityMax != nil {
		s.HumidityMax = p.HumidityMax
	}
	if p.SoilMoistureMin != nil {
		s.SoilMoistureMin = p.SoilMoistureMin
	}
	if p.SoilMoistureMax != nil {
		s.SoilMoistureMax = p.SoilMoistureMax
	}
	if p.LightIntensityMin != nil {
		s.LightIntensityMin = p.LightIntensityMin
	}
	if p.LightIntensityMax != nil {
		s.LightIntensityMax = p.LightIntensityMax
	}
	if p.GasMin != nil {
		s.GasMin = p.GasMin
	}
	if p.GasMax != nil {
		s.GasMax = p.GasMax
	}
}

// UpdateAlertSetting merges a partial update into the scope's record,
// creating the record on first write. No range validation is done: an
// inverted min/max pair is stored as supplied.
func UpdateAlertSetting(db *gorm.DB, locationID *uint, patch AlertSettingPatch) (models.AlertSetting, error) {
	var setting models.AlertSetting
	query := db.Where("location_id IS NULL")
	if locationID != nil {
		query = db.Where("location_id = ?", *locationID)
	}

	err := query.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.AlertSetting{LocationID: locationID}
	} else if err != nil {
		return models.AlertSetting{}, err
	}

	patch.apply(&setting)
	if err := db.Save(&setting).Error; err != nil {
		return models.AlertSetting{}, err
	}
	return setting, nil
}
