package collector

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sihas-gateway/internal/profile"
	"sihas-gateway/internal/sensor"
	"sihas-gateway/internal/utils"
)

func TestStorageWritesJSONLAndCSV(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStorage(StorageConfig{Dir: dir, FileType: "jsonl+csv", MaxQueueSize: 16})
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}

	v := 220.5
	ok := sensor.Reading{
		ID:          "voltage",
		Unit:        profile.UnitVolt,
		DeviceClass: profile.ClassVoltage,
		StateClass:  profile.StateMeasurement,
		Value:       &v,
		Available:   true,
		Timestamp:   time.Now(),
	}
	down := sensor.Reading{
		ID:          "voltage",
		Unit:        profile.UnitVolt,
		DeviceClass: profile.ClassVoltage,
		StateClass:  profile.StateMeasurement,
		Available:   false,
		Timestamp:   time.Now(),
	}
	if err := s.Handle("pmm-1", ok); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if err := s.Handle("pmm-1", down); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	s.Close()

	// JSONL: two rows, the unavailable one without a value
	jf, err := os.Open(filepath.Join(dir, "readings.jsonl"))
	if err != nil {
		t.Fatalf("open jsonl: %v", err)
	}
	defer jf.Close()

	var recs []Record
	scanner := bufio.NewScanner(jf)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal jsonl row: %v", err)
		}
		recs = append(recs, rec)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 jsonl rows, got %d", len(recs))
	}
	if recs[0].Value == nil || *recs[0].Value != 220.5 {
		t.Fatalf("first row lost its value: %+v", recs[0])
	}
	if recs[1].Value != nil || recs[1].Available {
		t.Fatalf("unavailable row must carry no value: %+v", recs[1])
	}

	// CSV: header plus two rows
	cb, err := os.ReadFile(filepath.Join(dir, "readings.csv"))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(cb)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "220.5") {
		t.Fatalf("csv row missing value: %s", lines[1])
	}
}

func TestStorageRejectsUnknownFileType(t *testing.T) {
	if _, err := NewStorage(StorageConfig{Dir: t.TempDir(), FileType: "parquet", MaxQueueSize: 1}); err == nil {
		t.Fatalf("expected error for unsupported file type")
	}
}

func TestDedupHandlerSkipsUnchangedValues(t *testing.T) {
	var calls int
	h := dedupHandler(utils.NewValueCache(time.Minute), func(deviceID string, r sensor.Reading) error {
		calls++
		return nil
	})

	v := 42.0
	r := sensor.Reading{ID: "power", Value: &v, Available: true}
	for i := 0; i < 3; i++ {
		if err := h("pmm-1", r); err != nil {
			t.Fatalf("handler failed: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 passthrough for unchanged value, got %d", calls)
	}

	// unavailable readings always pass through
	down := sensor.Reading{ID: "power", Available: false}
	if err := h("pmm-1", down); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if err := h("pmm-1", down); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected unavailable readings to pass through, got %d calls", calls)
	}
}
