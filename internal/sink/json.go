// Package sink persists run output to durable structured documents.
// The sink is only ever handed a complete record set; a failed run
// never produces a half-built document.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/denverfit/recsched/pkg/models"
)

// WriteJSON writes the schedule document, creating parent directories
// as needed.
func WriteJSON(doc models.ScheduleDocument, path string) error {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schedule document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write schedule document: %w", err)
	}

	log.Info().
		Str("file", path).
		Int("classes", doc.ClassCount).
		Msg("Schedule document saved")
	return nil
}
