package main

import (
	"context"
	"flag"
	"log"

	"sihas-gateway/internal/model"
	"sihas-gateway/internal/output"
	"sihas-gateway/pkg/readingsdb"
)

func main() {
	var dbPath string
	var outJSON string
	var outCSV string
	flag.StringVar(&dbPath, "db", "data/readings.sqlite", "path to readings database")
	flag.StringVar(&outJSON, "json", "", "path to write JSON snapshot (optional)")
	flag.StringVar(&outCSV, "csv", "", "path to write CSV snapshot (optional)")
	flag.Parse()

	if outJSON == "" && outCSV == "" {
		log.Fatalf("no output specified: set --json and/or --csv")
	}

	client, err := readingsdb.Open(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	devices, err := client.ListDevices(ctx)
	if err != nil {
		log.Fatalf("list devices: %v", err)
	}

	snaps := make([]model.DeviceSnapshot, 0, len(devices))
	for _, dev := range devices {
		readings, err := client.LatestReadings(ctx, dev.DeviceID)
		if err != nil {
			log.Fatalf("latest readings for %s: %v", dev.DeviceID, err)
		}
		snap := model.DeviceSnapshot{DeviceID: dev.DeviceID, Model: dev.Model}
		for _, r := range readings {
			snap.Measurements = append(snap.Measurements, model.MeasurementSnapshot{
				ID:          r.MeasurementID,
				Unit:        r.Unit,
				DeviceClass: r.DeviceClass,
				StateClass:  r.StateClass,
				Value:       r.Value,
				Available:   r.Available,
				Timestamp:   r.Timestamp,
			})
		}
		snaps = append(snaps, snap)
	}

	if outJSON != "" {
		if err := output.WriteJSON(outJSON, snaps); err != nil {
			log.Printf("write json error: %v", err)
		}
	}
	if outCSV != "" {
		if err := output.WriteCSV(outCSV, snaps); err != nil {
			log.Printf("write csv error: %v", err)
		}
	}
}
