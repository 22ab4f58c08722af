package tasks

import (
	"context"

	"sihas-gateway/internal/collector"
)

// Options defines initialization overrides for the gateway.
// Mirrors the CLI flags used in cmd/gateway/main.go.
type Options struct {
	ConfigPath     string
	StorageEnabled bool
	StorageDir     string
	MQTTBroker     string
}

// InitAndRunGateway loads config, applies overrides, constructs the
// manager and runs it until ctx is cancelled.
func InitAndRunGateway(ctx context.Context, opts Options) error {
	cfg, err := collector.LoadYAML(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Override YAML with provided options
	if opts.StorageEnabled {
		cfg.System.Storage.Enabled = true
	}
	if opts.StorageDir != "" {
		cfg.System.Storage.Dir = opts.StorageDir
		cfg.System.Storage.Enabled = true
	}
	if opts.MQTTBroker != "" {
		cfg.System.MQTT.Broker = opts.MQTTBroker
		cfg.System.MQTT.Enabled = true
	}

	mgr := &collector.Manager{Cfg: cfg}
	return mgr.Run(ctx)
}
