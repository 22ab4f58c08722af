package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"sihas-gateway/internal/model"
)

// WriteJSON writes device snapshots to a JSON file with pretty formatting.
func WriteJSON(path string, snaps []model.DeviceSnapshot) error {
	b, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteCSV flattens device snapshots and writes them to a CSV file.
func WriteCSV(path string, snaps []model.DeviceSnapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"device_id", "model", "measurement_id", "unit", "device_class", "state_class", "available", "value", "timestamp"}
	if err := w.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, snap := range snaps {
		for _, m := range snap.Measurements {
			value := ""
			if m.Value != nil {
				value = strconv.FormatFloat(*m.Value, 'f', -1, 64)
			}
			row := []string{
				snap.DeviceID,
				snap.Model,
				m.ID,
				m.Unit,
				m.DeviceClass,
				m.StateClass,
				strconv.FormatBool(m.Available),
				value,
				m.Timestamp.Format(time.RFC3339),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}
	return nil
}
