package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"sihas-gateway/internal/mqtt"
	"sihas-gateway/internal/profile"
	"sihas-gateway/internal/sensor"
	"sihas-gateway/internal/transport"
	"sihas-gateway/internal/utils"
)

// ResultHandler is a callback to process decoded readings.
// Return an error to have it logged by the manager.
type ResultHandler func(deviceID string, r sensor.Reading) error

// Manager coordinates polling multiple devices concurrently. Each device
// gets its own goroutine and its own register window; within one cycle
// the window is polled exactly once and the snapshot is handed to every
// reader for that device.
type Manager struct {
	Cfg       RootConfig
	OnReading ResultHandler // optional global handler
}

func (m *Manager) Run(ctx context.Context) error {
	var handlers []ResultHandler
	if m.OnReading != nil {
		handlers = append(handlers, m.OnReading)
	}

	// optional storage
	if m.Cfg.System.Storage.Enabled {
		store, err := NewStorage(m.Cfg.System.Storage)
		if err != nil {
			log.Printf("storage init failed: %v (continuing without storage)", err)
		} else {
			defer store.Close()
			for _, dev := range m.Cfg.Devices {
				if err := store.RegisterDevice(dev); err != nil {
					log.Printf("register device %s: %v", dev.DeviceID, err)
				}
			}
			// skip rewriting values that have not changed recently
			vc := utils.NewValueCache(m.Cfg.System.Storage.CacheTTL)
			handlers = append(handlers, dedupHandler(vc, store.Handle))
		}
	}

	// optional MQTT publishing
	if m.Cfg.System.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(mqtt.Options{
			Broker:          m.Cfg.System.MQTT.Broker,
			ClientID:        m.Cfg.System.MQTT.ClientID,
			Username:        m.Cfg.System.MQTT.Username,
			Password:        m.Cfg.System.MQTT.Password,
			TopicPrefix:     m.Cfg.System.MQTT.TopicPrefix,
			DiscoveryPrefix: m.Cfg.System.MQTT.DiscoveryPrefix,
		})
		if err != nil {
			log.Printf("mqtt init failed: %v (continuing without mqtt)", err)
		} else {
			defer pub.Close()
			handlers = append(handlers, pub.PublishReading)
		}
	}

	handler := func(deviceID string, r sensor.Reading) {
		for _, h := range handlers {
			if err := h(deviceID, r); err != nil {
				log.Printf("handler error for %s/%s: %v", deviceID, r.ID, err)
			}
		}
	}

	var wg sync.WaitGroup
	for _, dev := range m.Cfg.Devices {
		dev := dev
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.runDevice(ctx, dev, handler); err != nil {
				log.Printf("device %s exited: %v", dev.DeviceID, err)
			}
		}()
	}
	wg.Wait()
	return nil
}

func (m *Manager) runDevice(ctx context.Context, dev DeviceConfig, handle func(string, sensor.Reading)) error {
	specs, err := profile.Specs(dev.Model)
	if err != nil {
		return err
	}
	count, err := profile.RegisterCount(dev.Model)
	if err != nil {
		return err
	}

	win, err := transport.NewWindow(transport.Options{
		Host:    dev.Host,
		Port:    dev.Port,
		SlaveID: dev.SlaveID,
		Timeout: dev.Timeout,
		Count:   count,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	readers := make([]*sensor.MeasurementReader, 0, len(specs))
	for _, s := range specs {
		readers = append(readers, sensor.NewMeasurementReader(s, win))
	}

	ticker := time.NewTicker(dev.PollInterval)
	defer ticker.Stop()

	// Immediate first cycle
	m.cycle(ctx, dev, win, readers, handle)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.cycle(ctx, dev, win, readers, handle)
		}
	}
}

// cycle polls the device window once and fans the captured snapshot out
// to every reader, so all measurements of a device observe the same
// registers within a cycle.
func (m *Manager) cycle(ctx context.Context, dev DeviceConfig, win *transport.Window, readers []*sensor.MeasurementReader, handle func(string, sensor.Reading)) {
	pollCtx, cancel := context.WithTimeout(ctx, dev.Timeout)
	err := win.Poll(pollCtx)
	cancel()
	if err != nil {
		// context cancelled or deadline hit before the poll ran
		return
	}

	regs := win.Registers()
	available := win.Available()
	now := time.Now()
	for _, r := range readers {
		handle(dev.DeviceID, r.Observe(regs, available, now))
	}
}

// dedupHandler drops available readings whose value is unchanged within
// the cache TTL. Unavailable readings always pass through so an outage is
// never masked.
func dedupHandler(vc *utils.ValueCache, next ResultHandler) ResultHandler {
	return func(deviceID string, r sensor.Reading) error {
		if r.Available && r.Value != nil {
			key := deviceID + "/" + r.ID
			if prev, ok := vc.GetValue(key); ok && prev == *r.Value {
				return nil
			}
			vc.SetValue(key, *r.Value)
		}
		return next(deviceID, r)
	}
}
