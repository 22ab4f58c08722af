package collector

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sihas-gateway/internal/profile"
)

// Root configuration for the gateway manager.
// This mirrors config/config.yaml.

type RootConfig struct {
	System  SystemConfig   `yaml:"system"`
	Devices []DeviceConfig `yaml:"devices"`
}

type SystemConfig struct {
	Storage StorageConfig `yaml:"storage"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
}

type StorageConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Dir          string        `yaml:"dir"`
	FileType     string        `yaml:"file_type"` // jsonl | csv | db and combinations
	DBPath       string        `yaml:"db_path"`
	MaxQueueSize int           `yaml:"max_queue_size"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

type MQTTConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Broker          string `yaml:"broker"`
	ClientID        string `yaml:"client_id"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	TopicPrefix     string `yaml:"topic_prefix"`
	DiscoveryPrefix string `yaml:"discovery_prefix"`
}

type DeviceConfig struct {
	DeviceID     string        `yaml:"device_id"`
	Model        string        `yaml:"model"` // AQM300 | PMM300
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	SlaveID      uint8         `yaml:"slave_id"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

func LoadYAML(path string) (RootConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RootConfig{}, err
	}
	var cfg RootConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RootConfig{}, err
	}
	// Defaults
	if cfg.System.Storage.MaxQueueSize <= 0 {
		cfg.System.Storage.MaxQueueSize = 1000
	}
	for i := range cfg.Devices {
		d := &cfg.Devices[i]
		if d.Port <= 0 {
			d.Port = 502
		}
		if d.SlaveID == 0 {
			d.SlaveID = 1
		}
		if d.Timeout <= 0 {
			d.Timeout = 5 * time.Second
		}
		if d.PollInterval <= 0 {
			d.PollInterval = 5 * time.Second
		}
	}
	// Basic validation
	if len(cfg.Devices) == 0 {
		return RootConfig{}, fmt.Errorf("no devices configured")
	}
	seen := make(map[string]bool, len(cfg.Devices))
	for _, d := range cfg.Devices {
		if d.DeviceID == "" {
			return RootConfig{}, fmt.Errorf("device without device_id")
		}
		if seen[d.DeviceID] {
			return RootConfig{}, fmt.Errorf("duplicate device_id %q", d.DeviceID)
		}
		seen[d.DeviceID] = true
		if d.Host == "" {
			return RootConfig{}, fmt.Errorf("device %s: host is required", d.DeviceID)
		}
		if _, err := profile.Specs(d.Model); err != nil {
			return RootConfig{}, fmt.Errorf("device %s: %w", d.DeviceID, err)
		}
	}
	if cfg.System.MQTT.Enabled && cfg.System.MQTT.Broker == "" {
		return RootConfig{}, fmt.Errorf("mqtt enabled but no broker configured")
	}
	return cfg, nil
}
