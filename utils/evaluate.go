package utils

import (
	"fmt"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
)

// MetricKind identifies one monitored telemetry channel. Air humidity and
// soil moisture are deliberately separate kinds even though some firmware
// reports only one of them.
type MetricKind string

const (
	MetricTemperature    MetricKind = "temperature"
	MetricHumidity       MetricKind = "humidity"
	MetricSoilMoisture   MetricKind = "soil_moisture"
	MetricLightIntensity MetricKind = "light_intensity"
	MetricGas            MetricKind = "gas"
)

// AlertDecision is a positive evaluation result: the reading is out of range
// and an alert with Message should be raised.
type AlertDecision struct {
	Metric  MetricKind
	Message string
}

// AlertType returns the notification type for this decision,
// e.g. "temperature_alert".
func (d *AlertDecision) AlertType() string {
	return string(d.Metric) + "_alert"
}

type metricBounds struct {
	label string
	unit  string
	min   *float64
	max   *float64
}

// Evaluate checks a single reading against the thresholds in setting.
// It returns nil when the value is within bounds, when no bound is configured
// on the offending side, or when the metric kind is unknown. A value can
// never trip both sides in one evaluation: the min check wins.
func Evaluate(metric MetricKind, value float64, setting models.AlertSetting) *AlertDecision {
	var b metricBounds
	switch metric {
	case MetricTemperature:
		b = metricBounds{"Temperature", "°C", setting.TemperatureMin, setting.TemperatureMax}
	case MetricHumidity:
		b = metricBounds{"Air humidity", "%", setting.HumidityMin, setting.HumidityMax}
	case MetricSoilMoisture:
		b = metricBounds{"Soil moisture", "%", setting.SoilMoistureMin, setting.SoilMoistureMax}
	case MetricLightIntensity:
		b = metricBounds{"Light intensity", " lux", setting.LightIntensityMin, setting.LightIntensityMax}
	case MetricGas:
		b = metricBounds{"Gas concentration", " ppm", setting.GasMin, setting.GasMax}
	default:
		// Unknown metric kinds are ignored so newer firmware can send
		// fields this backend does not know about yet.
		return nil
	}

	if b.min != nil && value < *b.min {
		return &AlertDecision{
			Metric:  metric,
			Message: fmt.Sprintf("%s too low: %g%s (threshold: %g%s)", b.label, value, b.unit, *b.min, b.unit),
		}
	}
	if b.max != nil && value > *b.max {
		return &AlertDecision{
			Metric:  metric,
			Message: fmt.Sprintf("%s too high: %g%s (threshold: %g%s)", b.label, value, b.unit, *b.max, b.unit),
		}
	}
	return nil
}
