package saver

import (
	"encoding/json"
	"os"

	"quik-bars/internal/model"
)

// JSONSaver writes the series as an indented array of model.Record.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(s *model.Series, path string) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	return writeFile(path, func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	})
}
