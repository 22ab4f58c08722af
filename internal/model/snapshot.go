package model

import "time"

// MeasurementSnapshot is the latest reading of one measurement.
type MeasurementSnapshot struct {
	ID          string    `json:"id"`
	Unit        string    `json:"unit"`
	DeviceClass string    `json:"device_class"`
	StateClass  string    `json:"state_class"`
	Value       *float64  `json:"value,omitempty"`
	Available   bool      `json:"available"`
	Timestamp   time.Time `json:"timestamp"`
}

// DeviceSnapshot aggregates the latest reading of every measurement of
// one device.
type DeviceSnapshot struct {
	DeviceID     string                `json:"device_id"`
	Model        string                `json:"model"`
	Measurements []MeasurementSnapshot `json:"measurements"`
}
