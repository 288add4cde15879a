// Package mqtt feeds broker-published sensor readings into the ingestion
// pipeline. Sensors publish one JSON reading per message on
// <prefix>/<room-id>/readings; the room id is taken from the topic.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/mvelasco/aura/internal/service"
)

const (
	connectTimeout   = 10 * time.Second
	ingestTimeout    = 10 * time.Second
	disconnectMillis = 250
)

// readingPayload is the JSON body sensors publish. Field pointers keep
// missing-field detection in the pipeline's validation step.
type readingPayload struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Air         *float64 `json:"air"`
	Noise       *float64 `json:"noise"`
	Light       *float64 `json:"light"`
	Timestamp   string   `json:"timestamp,omitempty"`
}

// Consumer subscribes to the readings topic and ingests every message.
type Consumer struct {
	client   paho.Client
	topic    string
	ingestor *service.Ingestor
	logger   *zap.Logger
}

// NewConsumer connects to the broker. Start must be called to subscribe.
func NewConsumer(broker, clientID, topic string, ingestor *service.Ingestor, logger *zap.Logger) (*Consumer, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(connectTimeout)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to MQTT broker: %w", token.Error())
	}

	return &Consumer{client: client, topic: topic, ingestor: ingestor, logger: logger}, nil
}

// Start subscribes to the readings topic. Handler errors are logged and never
// stop the subscription; a malformed message only loses itself.
func (c *Consumer) Start() error {
	token := c.client.Subscribe(c.topic, 1, func(_ paho.Client, msg paho.Message) {
		c.handle(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", c.topic, token.Error())
	}
	c.logger.Info("MQTT consumer subscribed", zap.String("topic", c.topic))
	return nil
}

// RoomIDFromTopic extracts the room id segment from a readings topic.
func RoomIDFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) < 3 || parts[len(parts)-1] != "readings" {
		return "", false
	}
	return parts[len(parts)-2], true
}

func (c *Consumer) handle(topic string, payload []byte) {
	roomID, ok := RoomIDFromTopic(topic)
	if !ok {
		c.logger.Warn("unexpected topic shape", zap.String("topic", topic))
		return
	}

	var body readingPayload
	if err := json.Unmarshal(payload, &body); err != nil {
		c.logger.Warn("malformed reading payload",
			zap.String("topic", topic), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	_, err := c.ingestor.Collect(ctx, service.CollectRequest{
		RoomID:      roomID,
		Temperature: body.Temperature,
		Humidity:    body.Humidity,
		Air:         body.Air,
		Noise:       body.Noise,
		Light:       body.Light,
		Timestamp:   body.Timestamp,
	})
	if err != nil {
		c.logger.Warn("ingest broker reading failed",
			zap.String("room_id", roomID), zap.Error(err))
	}
}

// Close unsubscribes and disconnects from the broker.
func (c *Consumer) Close() {
	if token := c.client.Unsubscribe(c.topic); token.Wait() && token.Error() != nil {
		c.logger.Warn("MQTT unsubscribe failed", zap.Error(token.Error()))
	}
	c.client.Disconnect(disconnectMillis)
}
