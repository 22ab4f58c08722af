// Package readingsdb exposes a stable API for third-party packages to
// access the gateway's readings database.
package readingsdb

import (
	"context"
	"time"

	dbpkg "sihas-gateway/internal/db"
	"sihas-gateway/internal/model"
)

// Client wraps the internal DB behind exported DTOs.
type Client struct{ db *dbpkg.DB }

// Open opens the SQLite database (runs migrations) and returns a client.
func Open(path string) (*Client, error) {
	d, err := dbpkg.Open(path)
	if err != nil {
		return nil, err
	}
	return &Client{db: d}, nil
}

// Close closes the underlying DB.
func (c *Client) Close() error { return c.db.Close() }

// Device is the exported device DTO.
type Device struct {
	DeviceID     string
	Model        string
	Host         string
	Port         int
	SlaveID      int
	PollInterval string
}

// Reading is the exported reading DTO. Value is nil for cycles where the
// measurement was unavailable.
type Reading struct {
	DeviceID      string
	MeasurementID string
	Unit          string
	DeviceClass   string
	StateClass    string
	Value         *float64
	Available     bool
	Timestamp     time.Time
}

func toModelDevice(d *Device) *model.Device {
	if d == nil {
		return nil
	}
	return &model.Device{
		DeviceID:     d.DeviceID,
		Model:        d.Model,
		Host:         d.Host,
		Port:         d.Port,
		SlaveID:      d.SlaveID,
		PollInterval: d.PollInterval,
	}
}

func fromModelDevice(d *model.Device) *Device {
	if d == nil {
		return nil
	}
	return &Device{
		DeviceID:     d.DeviceID,
		Model:        d.Model,
		Host:         d.Host,
		Port:         d.Port,
		SlaveID:      d.SlaveID,
		PollInterval: d.PollInterval,
	}
}

func fromModelReading(r *model.ReadingRecord) Reading {
	return Reading{
		DeviceID:      r.DeviceID,
		MeasurementID: r.MeasurementID,
		Unit:          r.Unit,
		DeviceClass:   r.DeviceClass,
		StateClass:    r.StateClass,
		Value:         r.Value,
		Available:     r.Available,
		Timestamp:     r.Timestamp,
	}
}

// SaveDevice inserts or updates a device definition.
func (c *Client) SaveDevice(ctx context.Context, d *Device) error {
	return c.db.UpsertDevice(ctx, toModelDevice(d))
}

// GetDevice fetches one device by id.
func (c *Client) GetDevice(ctx context.Context, deviceID string) (*Device, error) {
	dev, err := c.db.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return fromModelDevice(dev), nil
}

// ListDevices returns all known devices.
func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	list, err := c.db.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Device, 0, len(list))
	for i := range list {
		out = append(out, *fromModelDevice(&list[i]))
	}
	return out, nil
}

// DeleteDevice removes a device and its readings.
func (c *Client) DeleteDevice(ctx context.Context, deviceID string) error {
	return c.db.DeleteDevice(ctx, deviceID)
}

// InsertReading appends one reading row.
func (c *Client) InsertReading(ctx context.Context, r *Reading) error {
	return c.db.InsertReading(ctx, &model.ReadingRecord{
		DeviceID:      r.DeviceID,
		MeasurementID: r.MeasurementID,
		Unit:          r.Unit,
		DeviceClass:   r.DeviceClass,
		StateClass:    r.StateClass,
		Value:         r.Value,
		Available:     r.Available,
		Timestamp:     r.Timestamp,
	})
}

// LatestReadings returns the most recent reading per measurement for a
// device.
func (c *Client) LatestReadings(ctx context.Context, deviceID string) ([]Reading, error) {
	rows, err := c.db.LatestReadings(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	out := make([]Reading, 0, len(rows))
	for i := range rows {
		out = append(out, fromModelReading(&rows[i]))
	}
	return out, nil
}

// ReadingHistory returns readings for one measurement, newest first.
func (c *Client) ReadingHistory(ctx context.Context, deviceID, measurementID string, limit int) ([]Reading, error) {
	rows, err := c.db.ReadingHistory(ctx, deviceID, measurementID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Reading, 0, len(rows))
	for i := range rows {
		out = append(out, fromModelReading(&rows[i]))
	}
	return out, nil
}
