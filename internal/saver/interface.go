package saver

import (
	"path/filepath"
	"strings"

	"quik-bars/internal/model"
)

// SeriesSaver persists a whole series to one file.
// The app injects the implementation; the flows only see this interface.
type SeriesSaver interface {
	Save(s *model.Series, path string) error
	Extension() string
}

// NewSeriesSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewSeriesSaver(format string) SeriesSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// ForPath picks the saver matching the extension of path, falling back
// to def for unknown extensions.
func ForPath(path string, def SeriesSaver) SeriesSaver {
	if s := NewSeriesSaver(strings.TrimPrefix(filepath.Ext(path), ".")); s != nil {
		return s
	}
	return def
}
