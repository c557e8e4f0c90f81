package source

import (
	"github.com/parquet-go/parquet-go"

	"quik-bars/internal/model"
)

// ParquetLoader reads files written by saver.ParquetSaver.
type ParquetLoader struct{}

func (ParquetLoader) GetName() string { return "parquet" }

func (ParquetLoader) Load(path string) (*model.Table, error) {
	records, err := parquet.ReadFile[model.Record](path)
	if err != nil {
		return nil, err
	}
	return model.RecordsTable(records), nil
}
