package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"quik-bars/internal/model"
)

// XLSXLoader reads a workbook saved from a QUIK table export. The first
// row of the sheet is the header.
type XLSXLoader struct {
	Sheet string // empty: first sheet
}

func (XLSXLoader) GetName() string { return "xlsx" }

func (l XLSXLoader) Load(path string) (*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := l.Sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, ErrEmpty
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	t := &model.Table{Columns: rows[0]}
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) > len(t.Columns) {
			return nil, fmt.Errorf("sheet %q row %d: %d cells for %d columns", sheet, i+2, len(row), len(t.Columns))
		}
		// trailing empty cells are not returned by GetRows
		for len(row) < len(t.Columns) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
