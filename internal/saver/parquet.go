package saver

import (
	"os"

	"github.com/parquet-go/parquet-go"

	"quik-bars/internal/model"
)

// ParquetSaver writes the series as model.Record rows. Only the canonical
// OHLCV columns are kept.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(s *model.Series, path string) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	return writeFile(path, func(f *os.File) error {
		return parquet.Write(f, records)
	})
}
