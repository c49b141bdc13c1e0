package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/denverfit/recsched/pkg/models"
)

var csvHeader = []string{"Name", "Date", "Time", "Location", "Category", "ActivityID", "Room", "Instructor", "DurationMinutes"}

// WriteCSV exports records as a flat CSV for spreadsheet consumers.
func WriteCSV(records []models.ClassRecord, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		duration := ""
		if rec.DurationMinutes > 0 {
			duration = strconv.Itoa(rec.DurationMinutes)
		}
		row := []string{rec.Name, rec.Date, rec.Time, rec.Location, rec.Category, rec.ActivityID, rec.Room, rec.Instructor, duration}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write CSV rows: %w", err)
	}

	log.Info().Str("file", path).Int("rows", len(records)).Msg("CSV export saved")
	return nil
}
