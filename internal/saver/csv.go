package saver

import (
	"encoding/csv"
	"os"

	"quik-bars/internal/model"
)

// CSVSaver writes the series verbatim: header, then one row per bar.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(s *model.Series, path string) error {
	return writeFile(path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(s.Columns); err != nil {
			return err
		}
		for _, b := range s.Bars {
			if err := w.Write(b.Cells); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}
