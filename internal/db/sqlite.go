// Package db persists devices and readings in SQLite through GORM.
package db

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sihas-gateway/internal/model"
)

// DB wraps the sqlite connection.
type DB struct {
	ORM *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*DB, error) {
	orm, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := orm.AutoMigrate(&model.Device{}, &model.ReadingRecord{}); err != nil {
		return nil, err
	}
	return &DB{ORM: orm}, nil
}

// Close closes the underlying SQL connection.
func (d *DB) Close() error {
	sqlDB, err := d.ORM.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UpsertDevice inserts or updates a device definition.
func (d *DB) UpsertDevice(ctx context.Context, dev *model.Device) error {
	return d.ORM.WithContext(ctx).Save(dev).Error
}

// GetDevice fetches one device by id.
func (d *DB) GetDevice(ctx context.Context, deviceID string) (*model.Device, error) {
	var dev model.Device
	if err := d.ORM.WithContext(ctx).First(&dev, "device_id = ?", deviceID).Error; err != nil {
		return nil, err
	}
	return &dev, nil
}

// ListDevices returns all known devices.
func (d *DB) ListDevices(ctx context.Context) ([]model.Device, error) {
	var devs []model.Device
	if err := d.ORM.WithContext(ctx).Order("device_id").Find(&devs).Error; err != nil {
		return nil, err
	}
	return devs, nil
}

// DeleteDevice removes a device and its readings.
func (d *DB) DeleteDevice(ctx context.Context, deviceID string) error {
	if err := d.ORM.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Delete(&model.ReadingRecord{}).Error; err != nil {
		return err
	}
	return d.ORM.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Delete(&model.Device{}).Error
}

// InsertReading appends one reading row.
func (d *DB) InsertReading(ctx context.Context, r *model.ReadingRecord) error {
	return d.ORM.WithContext(ctx).Create(r).Error
}

// LatestReadings returns the most recent row per measurement for a device.
func (d *DB) LatestReadings(ctx context.Context, deviceID string) ([]model.ReadingRecord, error) {
	var rows []model.ReadingRecord
	err := d.ORM.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Where("id IN (SELECT MAX(id) FROM readings WHERE device_id = ? GROUP BY measurement_id)", deviceID).
		Order("measurement_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadingHistory returns rows for one measurement, newest first.
func (d *DB) ReadingHistory(ctx context.Context, deviceID, measurementID string, limit int) ([]model.ReadingRecord, error) {
	q := d.ORM.WithContext(ctx).
		Where("device_id = ? AND measurement_id = ?", deviceID, measurementID).
		Order("timestamp DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.ReadingRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
