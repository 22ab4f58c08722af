package model

import "time"

// Device is the persisted metadata for one configured sensor device.
type Device struct {
	DeviceID     string `gorm:"column:device_id;primaryKey"`
	Model        string `gorm:"column:model"`
	Host         string `gorm:"column:host"`
	Port         int    `gorm:"column:port"`
	SlaveID      int    `gorm:"column:slave_id"`
	PollInterval string `gorm:"column:poll_interval"`

	Readings []ReadingRecord `gorm:"foreignKey:DeviceID;references:DeviceID"`
}

func (Device) TableName() string { return "devices" }

// ReadingRecord is one stored measurement reading. Value is NULL for
// cycles where the measurement was unavailable.
type ReadingRecord struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	DeviceID      string    `gorm:"column:device_id;index"`
	MeasurementID string    `gorm:"column:measurement_id;index"`
	Unit          string    `gorm:"column:unit"`
	DeviceClass   string    `gorm:"column:device_class"`
	StateClass    string    `gorm:"column:state_class"`
	Value         *float64  `gorm:"column:value"`
	Available     bool      `gorm:"column:available"`
	Timestamp     time.Time `gorm:"column:timestamp;index"`

	Device Device `gorm:"foreignKey:DeviceID;references:DeviceID"`
}

func (ReadingRecord) TableName() string { return "readings" }
