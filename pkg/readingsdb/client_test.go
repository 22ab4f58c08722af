package readingsdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "readings_test.sqlite")
	client, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestDeviceCRUD(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	dev := &Device{
		DeviceID:     "pmm-1",
		Model:        "PMM300",
		Host:         "192.168.1.41",
		Port:         502,
		SlaveID:      1,
		PollInterval: "5s",
	}
	if err := client.SaveDevice(ctx, dev); err != nil {
		t.Fatalf("SaveDevice failed: %v", err)
	}

	got, err := client.GetDevice(ctx, dev.DeviceID)
	if err != nil {
		t.Fatalf("GetDevice failed: %v", err)
	}
	if got.Model != "PMM300" || got.Host != dev.Host {
		t.Fatalf("unexpected device: %+v", got)
	}

	dev.Host = "192.168.1.99"
	if err := client.SaveDevice(ctx, dev); err != nil {
		t.Fatalf("SaveDevice update failed: %v", err)
	}

	list, err := client.ListDevices(ctx)
	if err != nil {
		t.Fatalf("ListDevices failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 device, got %d", len(list))
	}
	if list[0].Host != "192.168.1.99" {
		t.Fatalf("expected updated host, got %q", list[0].Host)
	}

	if err := client.DeleteDevice(ctx, dev.DeviceID); err != nil {
		t.Fatalf("DeleteDevice failed: %v", err)
	}
	list, err = client.ListDevices(ctx)
	if err != nil {
		t.Fatalf("ListDevices failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected 0 devices after delete, got %d", len(list))
	}
}

func TestLatestReadingsAndHistory(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	base := time.Now().Add(-time.Minute).Truncate(time.Second)
	v1, v2, p := 220.1, 220.7, 335.0
	rows := []*Reading{
		{DeviceID: "pmm-1", MeasurementID: "voltage", Unit: "V", DeviceClass: "voltage", StateClass: "measurement", Value: &v1, Available: true, Timestamp: base},
		{DeviceID: "pmm-1", MeasurementID: "voltage", Unit: "V", DeviceClass: "voltage", StateClass: "measurement", Value: &v2, Available: true, Timestamp: base.Add(10 * time.Second)},
		{DeviceID: "pmm-1", MeasurementID: "power", Unit: "W", DeviceClass: "power", StateClass: "measurement", Value: &p, Available: true, Timestamp: base.Add(10 * time.Second)},
		{DeviceID: "pmm-1", MeasurementID: "power", Unit: "W", DeviceClass: "power", StateClass: "measurement", Available: false, Timestamp: base.Add(20 * time.Second)},
	}
	for _, r := range rows {
		if err := client.InsertReading(ctx, r); err != nil {
			t.Fatalf("InsertReading failed: %v", err)
		}
	}

	latest, err := client.LatestReadings(ctx, "pmm-1")
	if err != nil {
		t.Fatalf("LatestReadings failed: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected 2 latest rows, got %d", len(latest))
	}
	byID := map[string]Reading{}
	for _, r := range latest {
		byID[r.MeasurementID] = r
	}
	if got := byID["voltage"]; got.Value == nil || *got.Value != 220.7 {
		t.Fatalf("expected latest voltage 220.7, got %+v", got)
	}
	if got := byID["power"]; got.Available || got.Value != nil {
		t.Fatalf("latest power should be the unavailable row, got %+v", got)
	}

	hist, err := client.ReadingHistory(ctx, "pmm-1", "voltage", 0)
	if err != nil {
		t.Fatalf("ReadingHistory failed: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(hist))
	}
	if hist[0].Value == nil || *hist[0].Value != 220.7 {
		t.Fatalf("history must be newest first, got %+v", hist[0])
	}

	limited, err := client.ReadingHistory(ctx, "pmm-1", "voltage", 1)
	if err != nil {
		t.Fatalf("ReadingHistory failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 limited row, got %d", len(limited))
	}
}
