package ingest

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"venue-pulse/internal/models"
)

// ClientConfig holds MQTT connection settings
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string // e.g. "venue/+/reading"
}

// Consumer subscribes to the venue reading topic and feeds parsed
// readings into a channel for the worker.
type Consumer struct {
	client mqtt.Client
	topic  string
	out    chan<- *models.SensorReading
}

// NewConsumer connects to the broker. The connection reconnects on its
// own; subscriptions are restored by paho after a drop.
func NewConsumer(cfg ClientConfig, out chan<- *models.SensorReading) (*Consumer, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetOnConnectHandler(connectHandler)
	opts.SetConnectionLostHandler(connectLostHandler)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	log.Println("✅ MQTT Connected:", cfg.Broker)

	return &Consumer{client: client, topic: cfg.Topic, out: out}, nil
}

func (c *Consumer) Subscribe() error {
	token := c.client.Subscribe(c.topic, 1, c.handleReading)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("📡 Subscribed to %s", c.topic)
	return nil
}

func (c *Consumer) Close() {
	c.client.Disconnect(250)
	log.Println("MQTT Disconnected")
}

func (c *Consumer) handleReading(_ mqtt.Client, msg mqtt.Message) {
	var reading models.SensorReading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		log.Printf("Error unmarshaling reading from %s: %v", msg.Topic(), err)
		readings.WithLabelValues("invalid").Inc()
		return
	}

	// The topic segment wins over whatever the payload claims
	if id := extractVenueID(msg.Topic()); id != "" {
		reading.VenueID = id
	}
	if reading.VenueID == "" {
		log.Printf("Could not extract venue ID from topic: %s", msg.Topic())
		readings.WithLabelValues("invalid").Inc()
		return
	}

	// Devices with drifting clocks get stamped server-side
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now().UTC()
	}

	select {
	case c.out <- &reading:
	case <-time.After(1 * time.Second):
		log.Printf("Warning: Reading channel full, dropping message from %s", reading.VenueID)
		readings.WithLabelValues("dropped").Inc()
	}
}

// extractVenueID pulls the venue segment out of the topic.
// Example: "venue/blue-door/reading" -> "blue-door"
func extractVenueID(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}

// Connection event handlers
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Println("MQTT: Connection established")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Printf("MQTT: Connection lost: %v", err)
}
