package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Well-known column names after header normalization.
const (
	ColTicker   = "ticker"
	ColPeriod   = "per"
	ColDate     = "date"
	ColTime     = "time"
	ColDatetime = "datetime"
	ColVolume   = "vol"
	ColOpen     = "open"
	ColHigh     = "high"
	ColLow      = "low"
	ColClose    = "close"
)

// Table is a raw delimited file as loaded: a header and untyped rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	return slices.Index(t.Columns, name)
}

// Bar is one normalized bar. Cells are aligned with Series.Columns; the
// ticker, datetime and vol cells hold normalized text, everything else is
// passed through untouched.
type Bar struct {
	Time   time.Time
	Volume int64
	Cells  []string
}

// Date returns the calendar date of the bar.
func (b Bar) Date() time.Time { return DateOf(b.Time) }

// Series is a canonical bar series of one instrument at one period.
type Series struct {
	Columns []string
	Kinds   []Kind
	Period  Period
	Bars    []Bar
}

// Index returns the position of column name, or -1.
func (s *Series) Index(name string) int {
	return slices.Index(s.Columns, name)
}

// Has reports whether the series carries column name.
func (s *Series) Has(name string) bool { return s.Index(name) >= 0 }

// KindOf returns the inferred kind of column name.
func (s *Series) KindOf(name string) (Kind, bool) {
	i := s.Index(name)
	if i < 0 || i >= len(s.Kinds) {
		return 0, false
	}
	return s.Kinds[i], true
}

// Cell returns the cell of bar b for column name, or "" when absent.
func (s *Series) Cell(b Bar, name string) string {
	i := s.Index(name)
	if i < 0 || i >= len(b.Cells) {
		return ""
	}
	return b.Cells[i]
}

// Dates returns the distinct calendar dates of the series in ascending order.
func (s *Series) Dates() []time.Time {
	seen := make(map[time.Time]struct{})
	var out []time.Time
	for _, b := range s.Bars {
		d := b.Date()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}

// Tickers returns the distinct ticker labels in order of first appearance.
func (s *Series) Tickers() []string {
	i := s.Index(ColTicker)
	if i < 0 {
		return nil
	}
	var out []string
	for _, b := range s.Bars {
		if !slices.Contains(out, b.Cells[i]) {
			out = append(out, b.Cells[i])
		}
	}
	return out
}

// Table renders the series back to a raw table, header first.
func (s *Series) Table() *Table {
	t := &Table{Columns: slices.Clone(s.Columns), Rows: make([][]string, len(s.Bars))}
	for i, b := range s.Bars {
		t.Rows[i] = b.Cells
	}
	return t
}

// Record is the typed archival form of a bar, used by the parquet and
// json savers and the parquet loader.
type Record struct {
	Ticker    string  `json:"ticker" parquet:"ticker"`
	Period    string  `json:"per" parquet:"per"`
	Timestamp int64   `json:"t" parquet:"t"` // naive exchange-local time as Unix milliseconds
	Open      float64 `json:"o" parquet:"o"`
	High      float64 `json:"h" parquet:"h"`
	Low       float64 `json:"l" parquet:"l"`
	Close     float64 `json:"c" parquet:"c"`
	Volume    int64   `json:"v" parquet:"v"`
}

// Records converts the series to typed records. Price columns that are
// absent stay zero; columns outside the record shape are not carried.
func (s *Series) Records() ([]Record, error) {
	out := make([]Record, 0, len(s.Bars))
	for _, b := range s.Bars {
		r := Record{
			Ticker:    s.Cell(b, ColTicker),
			Period:    s.Cell(b, ColPeriod),
			Timestamp: b.Time.UnixMilli(),
			Volume:    b.Volume,
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{ColOpen, &r.Open},
			{ColHigh, &r.High},
			{ColLow, &r.Low},
			{ColClose, &r.Close},
		} {
			v := s.Cell(b, f.col)
			if v == "" {
				continue
			}
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("%s %q at %s: %w", f.col, v, FormatTime(b.Time), err)
			}
			*f.dst = d.InexactFloat64()
		}
		out = append(out, r)
	}
	return out, nil
}

// RecordsTable converts typed records back to a raw table with the
// column layout the cleaner produces.
func RecordsTable(records []Record) *Table {
	t := &Table{
		Columns: []string{ColTicker, ColPeriod, ColOpen, ColHigh, ColLow, ColClose, ColVolume, ColDatetime},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			r.Ticker,
			r.Period,
			floatStr(r.Open),
			floatStr(r.High),
			floatStr(r.Low),
			floatStr(r.Close),
			decimal.NewFromInt(r.Volume).String(),
			FormatTime(time.UnixMilli(r.Timestamp).UTC()),
		})
	}
	return t
}

func floatStr(f float64) string { return decimal.NewFromFloat(f).String() }
