package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"clock-radio/internal/domain"
	"clock-radio/internal/logging"
)

// MQTTPublisher implements domain.EventPublisher on an MQTT broker.
// Events are published retained so a late subscriber sees the latest state.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to broker (e.g. tcp://localhost:1883).
func NewMQTTPublisher(broker, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(5 * time.Second)
	opts.OnConnect = func(mqtt.Client) {
		logging.Infof("mqtt: connected to %s", broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logging.Warnf("mqtt: connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect mqtt broker %s: %w", broker, token.Error())
	}
	return &MQTTPublisher{client: client, topic: topic}, nil
}

// Publish sends the event as JSON to the configured topic.
func (p *MQTTPublisher) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	token := p.client.Publish(p.topic, 1, true, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
