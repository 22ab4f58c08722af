// Package mqtt publishes decoded readings to a home-automation platform
// over MQTT, including one-shot Home Assistant discovery announcements so
// each measurement appears as its own channel.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"sihas-gateway/internal/sensor"
)

const (
	defaultTopicPrefix     = "sihas"
	defaultDiscoveryPrefix = "homeassistant"
	connectTimeout         = 10 * time.Second
	publishTimeout         = 5 * time.Second
)

// Options configures the broker connection and topic layout.
type Options struct {
	Broker          string // e.g. tcp://127.0.0.1:1883
	ClientID        string
	Username        string
	Password        string
	TopicPrefix     string
	DiscoveryPrefix string
}

// Publisher mirrors readings onto MQTT topics. Safe for use from
// multiple device goroutines.
type Publisher struct {
	client          pahomqtt.Client
	prefix          string
	discoveryPrefix string

	mu        sync.Mutex
	announced map[string]bool
}

// NewPublisher connects to the broker and returns a ready publisher.
func NewPublisher(opts Options) (*Publisher, error) {
	clientID := opts.ClientID
	if clientID == "" {
		clientID = "sihas-gateway"
	}
	prefix := opts.TopicPrefix
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	discovery := opts.DiscoveryPrefix
	if discovery == "" {
		discovery = defaultDiscoveryPrefix
	}

	co := pahomqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	if opts.Username != "" {
		co.SetUsername(opts.Username)
		co.SetPassword(opts.Password)
	}

	client := pahomqtt.NewClient(co)
	tok := client.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect %s: timeout", opts.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", opts.Broker, err)
	}

	return &Publisher{
		client:          client,
		prefix:          prefix,
		discoveryPrefix: discovery,
		announced:       make(map[string]bool),
	}, nil
}

// PublishReading publishes one reading: availability always, the state
// only when a value was decoded this cycle. Unavailable cycles never
// republish the previous value.
func (p *Publisher) PublishReading(deviceID string, r sensor.Reading) error {
	if err := p.announce(deviceID, r); err != nil {
		return err
	}

	avail := "offline"
	if r.Available {
		avail = "online"
	}
	if err := p.publish(availabilityTopic(p.prefix, deviceID, r.ID), avail, true); err != nil {
		return err
	}
	if !r.Available || r.Value == nil {
		return nil
	}
	return p.publish(stateTopic(p.prefix, deviceID, r.ID), strconv.FormatFloat(*r.Value, 'f', -1, 64), false)
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(uint(publishTimeout / time.Millisecond))
}

// announce publishes the retained discovery config once per measurement.
func (p *Publisher) announce(deviceID string, r sensor.Reading) error {
	key := deviceID + "/" + r.ID
	p.mu.Lock()
	done := p.announced[key]
	p.announced[key] = true
	p.mu.Unlock()
	if done {
		return nil
	}

	cfg := discoveryConfig{
		Name:              deviceID + " " + r.ID,
		UniqueID:          deviceID + "-" + r.ID,
		StateTopic:        stateTopic(p.prefix, deviceID, r.ID),
		AvailabilityTopic: availabilityTopic(p.prefix, deviceID, r.ID),
		Unit:              string(r.Unit),
		DeviceClass:       string(r.DeviceClass),
		StateClass:        string(r.StateClass),
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/sensor/%s_%s/config", p.discoveryPrefix, deviceID, r.ID)
	return p.publish(topic, string(b), true)
}

func (p *Publisher) publish(topic, payload string, retain bool) error {
	tok := p.client.Publish(topic, 0, retain, payload)
	if !tok.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	return tok.Error()
}

// discoveryConfig is the Home Assistant MQTT discovery payload. It
// carries the full measurement metadata so the platform can register the
// channel without knowing the decode tables.
type discoveryConfig struct {
	Name              string `json:"name"`
	UniqueID          string `json:"unique_id"`
	StateTopic        string `json:"state_topic"`
	AvailabilityTopic string `json:"availability_topic"`
	Unit              string `json:"unit_of_measurement,omitempty"`
	DeviceClass       string `json:"device_class,omitempty"`
	StateClass        string `json:"state_class,omitempty"`
}

func stateTopic(prefix, deviceID, id string) string {
	return fmt.Sprintf("%s/%s/%s/state", prefix, deviceID, id)
}

func availabilityTopic(prefix, deviceID, id string) string {
	return fmt.Sprintf("%s/%s/%s/availability", prefix, deviceID, id)
}
