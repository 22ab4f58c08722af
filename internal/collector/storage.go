package collector

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	dbpkg "sihas-gateway/internal/db"
	"sihas-gateway/internal/model"
	"sihas-gateway/internal/sensor"
)

// Record is one stored reading tagged with its device.
type Record struct {
	DeviceID string `json:"device_id"`
	sensor.Reading
}

// Storage writes readings to JSONL/CSV files and/or SQLite asynchronously.
type Storage struct {
	dir string
	q   chan Record
	wg  sync.WaitGroup

	enableJSON bool
	enableCSV  bool
	enableDB   bool

	jsonFile   *os.File
	jsonWriter *bufio.Writer

	csvFile   *os.File
	csvWriter *csv.Writer

	db *dbpkg.DB
}

// NewStorage ensures the output directory exists, opens requested sinks,
// and starts the background writer.
func NewStorage(cfg StorageConfig) (*Storage, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	s := &Storage{
		dir: dir,
		q:   make(chan Record, cfg.MaxQueueSize),
	}

	ft := strings.ToLower(strings.TrimSpace(cfg.FileType))
	for _, part := range strings.Split(ft, "+") {
		switch strings.TrimSpace(part) {
		case "", "json", "jsonl":
			s.enableJSON = true
		case "csv":
			s.enableCSV = true
		case "db", "sqlite":
			s.enableDB = true
		case "both", "all":
			s.enableJSON = true
			s.enableCSV = true
		default:
			return nil, fmt.Errorf("unsupported storage file_type %q", cfg.FileType)
		}
	}
	if !s.enableJSON && !s.enableCSV && !s.enableDB {
		return nil, errors.New("storage must enable at least one output")
	}

	if s.enableJSON {
		jf, err := os.OpenFile(filepath.Join(dir, "readings.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json output: %w", err)
		}
		s.jsonFile = jf
		s.jsonWriter = bufio.NewWriterSize(jf, 64*1024)
	}

	if s.enableCSV {
		cf, err := os.OpenFile(filepath.Join(dir, "readings.csv"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			s.closeFiles()
			return nil, fmt.Errorf("open csv output: %w", err)
		}
		s.csvFile = cf
		s.csvWriter = csv.NewWriter(cf)
		if off, _ := cf.Seek(0, os.SEEK_END); off == 0 {
			header := []string{"timestamp", "device_id", "measurement_id", "unit", "device_class", "state_class", "available", "value"}
			if err := s.csvWriter.Write(header); err != nil {
				s.closeFiles()
				return nil, fmt.Errorf("write csv header: %w", err)
			}
			s.csvWriter.Flush()
			if err := s.csvWriter.Error(); err != nil {
				s.closeFiles()
				return nil, err
			}
		}
	}

	if s.enableDB {
		path := cfg.DBPath
		if path == "" {
			path = filepath.Join(dir, "readings.sqlite")
		}
		db, err := dbpkg.Open(path)
		if err != nil {
			s.closeFiles()
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		s.db = db
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for rec := range s.q {
			if s.enableJSON {
				if err := s.writeJSONL(rec); err != nil {
					log.Printf("storage jsonl: %v", err)
				}
			}
			if s.enableCSV {
				if err := s.writeCSV(rec); err != nil {
					log.Printf("storage csv: %v", err)
				}
			}
			if s.enableDB {
				if err := s.writeDB(rec); err != nil {
					log.Printf("storage db: %v", err)
				}
			}
		}
	}()
	return s, nil
}

// Handle enqueues a reading for writing. When the queue is full the
// record is dropped rather than blocking the poll loop.
func (s *Storage) Handle(deviceID string, r sensor.Reading) error {
	select {
	case s.q <- Record{DeviceID: deviceID, Reading: r}:
		return nil
	default:
		return fmt.Errorf("storage queue full, dropping %s/%s", deviceID, r.ID)
	}
}

// RegisterDevice persists device metadata so exports can enumerate
// devices without the YAML config.
func (s *Storage) RegisterDevice(dev DeviceConfig) error {
	if !s.enableDB {
		return nil
	}
	return s.db.UpsertDevice(context.Background(), &model.Device{
		DeviceID:     dev.DeviceID,
		Model:        dev.Model,
		Host:         dev.Host,
		Port:         dev.Port,
		SlaveID:      int(dev.SlaveID),
		PollInterval: dev.PollInterval.String(),
	})
}

// Close drains the queue and closes all sinks.
func (s *Storage) Close() {
	close(s.q)
	s.wg.Wait()
	if s.jsonWriter != nil {
		s.jsonWriter.Flush()
	}
	if s.csvWriter != nil {
		s.csvWriter.Flush()
	}
	s.closeFiles()
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("storage close db: %v", err)
		}
	}
}

func (s *Storage) closeFiles() {
	if s.jsonFile != nil {
		s.jsonFile.Close()
	}
	if s.csvFile != nil {
		s.csvFile.Close()
	}
}

func (s *Storage) writeJSONL(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := s.jsonWriter.Write(b); err != nil {
		return err
	}
	if err := s.jsonWriter.WriteByte('\n'); err != nil {
		return err
	}
	return s.jsonWriter.Flush()
}

func (s *Storage) writeCSV(rec Record) error {
	value := ""
	if rec.Value != nil {
		value = strconv.FormatFloat(*rec.Value, 'f', -1, 64)
	}
	row := []string{
		rec.Timestamp.Format(time.RFC3339),
		rec.DeviceID,
		rec.ID,
		string(rec.Unit),
		string(rec.DeviceClass),
		string(rec.StateClass),
		strconv.FormatBool(rec.Available),
		value,
	}
	if err := s.csvWriter.Write(row); err != nil {
		return err
	}
	s.csvWriter.Flush()
	return s.csvWriter.Error()
}

func (s *Storage) writeDB(rec Record) error {
	return s.db.InsertReading(context.Background(), &model.ReadingRecord{
		DeviceID:      rec.DeviceID,
		MeasurementID: rec.ID,
		Unit:          string(rec.Unit),
		DeviceClass:   string(rec.DeviceClass),
		StateClass:    string(rec.StateClass),
		Value:         rec.Value,
		Available:     rec.Available,
		Timestamp:     rec.Timestamp,
	})
}
