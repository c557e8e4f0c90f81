package model

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing column")

// SeriesFromTable builds a series from an already cleaned table: it needs
// a datetime column and types vol when that column holds integers.
// Cells are kept as loaded.
func SeriesFromTable(t *Table) (*Series, error) {
	dt := t.Index(ColDatetime)
	if dt < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, ColDatetime)
	}
	s := &Series{Columns: t.Columns, Bars: make([]Bar, 0, len(t.Rows))}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("row %d: %d cells for %d columns", i+1, len(row), len(t.Columns))
		}
		ts, err := ParseDatetime(row[dt])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		s.Bars = append(s.Bars, Bar{Time: ts, Cells: row})
	}
	s.InferKinds()
	if k, ok := s.KindOf(ColVolume); ok && k == KindInt {
		vi := s.Index(ColVolume)
		for i := range s.Bars {
			v, err := ParseVolume(s.Bars[i].Cells[vi])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			s.Bars[i].Volume = v
		}
	}
	if pi := s.Index(ColPeriod); pi >= 0 && len(s.Bars) > 0 {
		s.Period = Period(s.Bars[0].Cells[pi])
	}
	return s, nil
}
