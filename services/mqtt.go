package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"gorm.io/gorm"

	"github.com/HungNM1486/be-iot-farm-ptit/models"
	"github.com/HungNM1486/be-iot-farm-ptit/utils"
)

// TelemetryReading is one decoded sensor payload. Pointer fields distinguish
// "metric absent" from a zero reading. Readings are checked against the
// thresholds and then discarded; raw history is deliberately not stored.
type TelemetryReading struct {
	Temperature  *float64 `json:"temperature"`
	Humidity     *float64 `json:"humidity"`
	SoilMoisture *float64 `json:"soil_moisture"`
	Light        *float64 `json:"light"`
	Gas          *float64 `json:"gas"`
}

// SensorConfig is the shape pushed down to a device's config topic.
type SensorConfig struct {
	Interval  *int  `json:"interval,omitempty"`
	Calibrate *bool `json:"calibrate,omitempty"`
}

// brokerConnectTimeout bounds how long Connect waits for the first attempt.
// After that the paho client retries on its own.
const brokerConnectTimeout = 5 * time.Second

// Gateway subscribes to the sensor topics on the MQTT broker and runs each
// inbound reading through the alert evaluator. Reconnects are delegated to
// the paho client.
type Gateway struct {
	db     *gorm.DB
	hub    Broadcaster
	client mqtt.Client
}

func NewGateway(db *gorm.DB, hub Broadcaster) *Gateway {
	return &Gateway{db: db, hub: hub}
}

// Connect dials the broker and subscribes to the sensor topic family.
// The subscriptions are installed from the OnConnect handler so they are
// re-established after every reconnect.
func (g *Gateway) Connect(brokerURL string) error {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(fmt.Sprintf("be-iot-farm-%d", time.Now().UnixNano())).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		log.Printf("connected to MQTT broker: %s", brokerURL)
		for _, topic := range []string{"iot/sensors/+/data", "iot/sensors/+/status"} {
			go logSubscribeResult(topic, c.Subscribe(topic, 0, g.handleMessage))
		}
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	})

	g.client = mqtt.NewClient(opts)
	token := g.client.Connect()
	if !token.WaitTimeout(brokerConnectTimeout) {
		// The client keeps retrying; startup must not wait for it.
		return fmt.Errorf("broker %s not reachable, retrying in background", brokerURL)
	}
	return token.Error()
}

// logSubscribeResult reports a rejected subscription. The broker keeps the
// connection up after a failed subscribe, so this is log-and-continue like
// every other failure on this path.
func logSubscribeResult(topic string, token mqtt.Token) {
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("subscription to %s failed: %v", topic, err)
	}
}

func (g *Gateway) handleMessage(client mqtt.Client, msg mqtt.Message) {
	// Expected topic: iot/sensors/{location_code}/{data|status}
	parts := strings.Split(msg.Topic(), "/")
	if len(parts) != 4 || parts[0] != "iot" || parts[1] != "sensors" {
		return
	}
	switch parts[3] {
	case "data":
		g.HandleSensorData(parts[2], msg.Payload())
	case "status":
		log.Printf("device %s status: %s", parts[2], msg.Payload())
	}
}

// HandleSensorData processes one telemetry payload for a device. Malformed
// payloads and unknown location codes are logged and dropped; a persistence
// failure for one metric's alert never stops the remaining metric checks.
func (g *Gateway) HandleSensorData(locationCode string, payload []byte) {
	var reading TelemetryReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		log.Printf("dropping malformed payload from %s: %v", locationCode, err)
		return
	}

	var location models.Location
	if err := g.db.Where("location_code = ?", locationCode).First(&location).Error; err != nil {
		log.Printf("no location with code %s, skipping evaluation", locationCode)
		return
	}

	setting, err := GetAlertSetting(g.db, &location.ID)
	if err != nil {
		log.Printf("failed to load alert settings for %s: %v", locationCode, err)
		return
	}

	checks := []struct {
		metric utils.MetricKind
		value  *float64
	}{
		{utils.MetricTemperature, reading.Temperature},
		{utils.MetricHumidity, reading.Humidity},
		{utils.MetricSoilMoisture, reading.SoilMoisture},
		{utils.MetricLightIntensity, reading.Light},
		{utils.MetricGas, reading.Gas},
	}

	for _, check := range checks {
		if check.value == nil {
			continue
		}
		decision := utils.Evaluate(check.metric, *check.value, setting)
		if decision == nil {
			continue
		}
		n := &models.Notification{
			Type:       decision.AlertType(),
			Message:    decision.Message,
			LocationID: location.ID,
		}
		if err := CreateNotification(g.db, g.hub, n); err != nil {
			// The alert for this occurrence is lost; keep checking
			// the other metrics in the same reading.
			log.Printf("failed to store %s alert for %s: %v", check.metric, locationCode, err)
			continue
		}
		log.Printf("alert created for %s: %s", locationCode, decision.Message)
	}
}

// SendSensorConfig publishes a config update to a device's config topic.
func (g *Gateway) SendSensorConfig(locationCode string, cfg SensorConfig) error {
	if g.client == nil || !g.client.IsConnected() {
		return errors.New("MQTT client is not connected")
	}
	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("iot/sensors/%s/config", locationCode)
	token := g.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	log.Printf("sent config to %s: %s", topic, payload)
	return nil
}
