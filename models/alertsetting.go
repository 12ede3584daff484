package models

import "time"

// AlertSetting holds the min/max alert thresholds for one scope.
// LocationID == nil means the global scope that applies when a location has
// no settings of its own. A nil bound means no limit on that side.
//
// Min/max pairs are stored as given; an inverted pair is not corrected.
type AlertSetting struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	LocationID        *uint     `json:"location_id" gorm:"uniqueIndex"`
	TemperatureMin    *float64  `json:"temperature_min"`
	TemperatureMax    *float64  `json:"temperature_max"`
	HumidityMin       *float64  `json:"humidity_min"`
	HumidityMax       *float64  `json:"humidity_max"`
	SoilMoistureMin   *float64  `json:"soil_moisture_min"`
	SoilMoistureMax   *float64  `json:"soil_moisture_max"`
	LightIntensityMin *float64  `json:"light_intensity_min"`
	LightIntensityMax *float64  `json:"light_intensity_max"`
	GasMin            *float64  `json:"gas_min"`
	GasMax            *float64  `json:"gas_max"`
	UpdatedAt         time.Time `json:"updated_at"`
}
