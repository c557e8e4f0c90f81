package source

import (
	"path/filepath"
	"strings"

	"quik-bars/internal/model"
)

// Loader reads one source file into an untyped table.
// Implementations own the file format; typing happens in the cleaner.
type Loader interface {
	GetName() string
	Load(path string) (*model.Table, error)
}

// ForPath picks the loader by file extension: .parquet files hold
// model.Record rows, .xlsx files are workbooks, anything else is read as
// delimited text.
func ForPath(path string) Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return ParquetLoader{}
	case ".xlsx":
		return XLSXLoader{}
	default:
		return CSVLoader{Comma: ','}
	}
}
