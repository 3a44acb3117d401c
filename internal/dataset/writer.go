package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes records to path as an indented JSON array, creating the parent
// directory when needed. An existing file is replaced.
func Save(records []Record, path string) error {
	if records == nil {
		records = []Record{}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}
