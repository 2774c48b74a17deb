// Package mqtt publishes alerts to an MQTT broker for off-device consumers.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"dashcam/internal/logger"
	"dashcam/internal/models"
)

const publishTimeout = 2 * time.Second

// Publisher forwards every alert to a fixed topic. It implements the alert
// sink contract; publish failures are logged and never propagate back into
// the pipeline.
type Publisher struct {
	client mqtt.Client
	topic  string
	logger *logger.Logger
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(broker, clientID, topic string, lg *logger.Logger) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		lg.Info("MQTT connection established to %s", broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		lg.Warning("MQTT connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &Publisher{
		client: client,
		topic:  topic,
		logger: lg,
	}, nil
}

// PublishAlert sends one alert as JSON. Implements alerts.Sink.
func (p *Publisher) PublishAlert(alert models.Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		p.logger.Error("Failed to marshal alert for MQTT: %v", err)
		return
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		p.logger.Warning("MQTT publish timed out for alert %d", alert.ID)
		return
	}
	if err := token.Error(); err != nil {
		p.logger.Error("MQTT publish failed: %v", err)
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
