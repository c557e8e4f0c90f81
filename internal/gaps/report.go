package gaps

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ReportPath returns where the gap report for dest is written.
func ReportPath(dest string) string { return dest + ".gaps.json" }

// WriteReport saves r as indented JSON, creating the parent directory.
func WriteReport(path string, r *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
