// Package clean turns a raw QUIK bar export into a canonical series.
//
// Each step is exported so it can be exercised on its own; Pipeline.Run
// applies them in order and logs what each one did.
package clean

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"quik-bars/internal/model"
	"quik-bars/internal/session"
)

var (
	ErrMissingColumn          = model.ErrMissingColumn
	ErrNonUniquePeriod        = errors.New("period data is not unique")
	ErrMissingTemporalColumns = errors.New("neither date/time nor datetime column in source data")
	ErrParse                  = errors.New("parse error")
)

// Options control the optional steps of the pipeline.
type Options struct {
	KeepDateTime  bool
	ExtendedHours bool
	StartDate     time.Time // zero = unbounded
	EndDate       time.Time // zero = unbounded
	Window        session.Window
}

// Result is the cleaned series with counters of what was dropped.
type Result struct {
	Series          *model.Series
	TickersBefore   []string
	TickersAfter    []string
	DroppedByDate   int
	DroppedExtended int
	Duplicates      int
}

// Pipeline runs the cleaning steps.
type Pipeline struct {
	Options Options
	Log     *slog.Logger
}

// New returns a pipeline; a nil logger logs to slog.Default.
func New(opts Options, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if opts.Window == (session.Window{}) {
		opts.Window = session.DefaultWindow
	}
	return &Pipeline{Options: opts, Log: log}
}

// Run cleans t. The table is modified in place; on error nothing usable
// is returned.
func (p *Pipeline) Run(t *model.Table) (*Result, error) {
	res := &Result{}
	NormalizeColumns(t)
	p.Log.Debug("normalized columns", "columns", t.Columns)

	period, err := UniquePeriod(t)
	if err != nil {
		return nil, err
	}

	res.TickersBefore, err = distinct(t, model.ColTicker)
	if err != nil {
		return nil, err
	}
	NormalizeTickers(t)
	res.TickersAfter, _ = distinct(t, model.ColTicker)
	p.Log.Info("renamed tickers", "from", res.TickersBefore, "to", res.TickersAfter)

	s, err := BuildTimestamps(t)
	if err != nil {
		return nil, err
	}
	s.Period = period
	p.Log.Info("built datetime column", "rows", len(s.Bars))

	if err := CoerceVolume(s); err != nil {
		return nil, err
	}

	if !p.Options.KeepDateTime && DropDateTime(s) {
		p.Log.Info("dropped date and time columns")
	}

	if !p.Options.StartDate.IsZero() || !p.Options.EndDate.IsZero() {
		res.DroppedByDate = FilterDates(s, p.Options.StartDate, p.Options.EndDate)
		p.Log.Info("dropped rows outside date range",
			"start", dateStr(p.Options.StartDate), "end", dateStr(p.Options.EndDate), "rows", res.DroppedByDate)
	}

	if p.Options.ExtendedHours {
		p.Log.Info("keeping extended hours")
	} else {
		res.DroppedExtended = FilterSession(s, p.Options.Window)
		p.Log.Info("dropped extended hours", "open", p.Options.Window.Open, "close", p.Options.Window.Close, "rows", res.DroppedExtended)
	}

	res.Duplicates = DropDuplicates(s)
	if res.Duplicates > 0 {
		p.Log.Warn("datetime column has duplicates, dropped", "rows", res.Duplicates)
	} else {
		p.Log.Info("no datetime duplicates found")
	}

	SortByTime(s)
	s.InferKinds()
	res.Series = s

	if dates := s.Dates(); len(dates) > 0 {
		p.Log.Info("cleaned series",
			"from", dateStr(dates[0]), "till", dateStr(dates[len(dates)-1]),
			"bars", len(s.Bars), "period", period, "known", period.Known())
	} else {
		p.Log.Warn("cleaned series is empty", "period", period)
	}
	return res, nil
}

var delimiters = strings.NewReplacer("<", "", ">", "")

// NormalizeColumns strips the export's angle brackets and lower-cases
// every header, so "<TICKER>" becomes "ticker".
func NormalizeColumns(t *model.Table) {
	for i, c := range t.Columns {
		t.Columns[i] = strings.ToLower(delimiters.Replace(c))
	}
}

// UniquePeriod returns the single per value of the table.
func UniquePeriod(t *model.Table) (model.Period, error) {
	pi := t.Index(model.ColPeriod)
	if pi < 0 {
		return "", fmt.Errorf("%w: %q", ErrMissingColumn, model.ColPeriod)
	}
	var values []string
	for _, row := range t.Rows {
		if !slices.Contains(values, row[pi]) {
			values = append(values, row[pi])
		}
	}
	if len(values) != 1 {
		return "", fmt.Errorf("%w: %q", ErrNonUniquePeriod, values)
	}
	return model.Period(values[0]), nil
}

// Futures market markers together with one neighbouring character, so
// "SPBFUT.RIH3" and "RIH3 [SPFB]" both reduce to "RIH3".
var tickerSuffix = regexp.MustCompile(`(?i).?SPBFUT.?|.?SPFB.?`)

// NormalizeTicker strips exchange markers and surrounding whitespace.
func NormalizeTicker(s string) string {
	return strings.TrimSpace(tickerSuffix.ReplaceAllString(s, ""))
}

// NormalizeTickers applies NormalizeTicker to the ticker column.
func NormalizeTickers(t *model.Table) {
	ti := t.Index(model.ColTicker)
	if ti < 0 {
		return
	}
	for _, row := range t.Rows {
		row[ti] = NormalizeTicker(row[ti])
	}
}

// BuildTimestamps parses the bar times and converts the table into a
// series. date+time wins over an existing datetime column, which is then
// overwritten in place; otherwise datetime is appended as the last column.
func BuildTimestamps(t *model.Table) (*model.Series, error) {
	di, ti, dti := t.Index(model.ColDate), t.Index(model.ColTime), t.Index(model.ColDatetime)
	if (di < 0 || ti < 0) && dti < 0 {
		return nil, ErrMissingTemporalColumns
	}

	s := &model.Series{Columns: slices.Clone(t.Columns), Bars: make([]model.Bar, 0, len(t.Rows))}
	out := dti
	if out < 0 {
		s.Columns = append(s.Columns, model.ColDatetime)
		out = len(s.Columns) - 1
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells for %d columns", ErrParse, i+1, len(row), len(t.Columns))
		}
		var (
			ts  time.Time
			err error
		)
		if di >= 0 && ti >= 0 {
			ts, err = model.ParseDateTime(row[di], row[ti])
		} else {
			ts, err = model.ParseDatetime(row[dti])
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrParse, i+1, err)
		}
		cells := row
		if dti < 0 {
			cells = append(slices.Clip(row), "")
		}
		cells[out] = model.FormatTime(ts)
		s.Bars = append(s.Bars, model.Bar{Time: ts, Cells: cells})
	}
	return s, nil
}

// CoerceVolume types the vol column as integers, rewriting its cells in
// canonical form. Series without a vol column are left alone.
func CoerceVolume(s *model.Series) error {
	vi := s.Index(model.ColVolume)
	if vi < 0 {
		return nil
	}
	for i := range s.Bars {
		v, err := model.ParseVolume(s.Bars[i].Cells[vi])
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		s.Bars[i].Volume = v
		s.Bars[i].Cells[vi] = fmt.Sprint(v)
	}
	return nil
}

// DropDateTime removes the separate date and time columns when both are
// present and reports whether it did.
func DropDateTime(s *model.Series) bool {
	di, ti := s.Index(model.ColDate), s.Index(model.ColTime)
	if di < 0 || ti < 0 || !s.Has(model.ColDatetime) {
		return false
	}
	keep := func(i int) bool { return i != di && i != ti }
	s.Columns = pick(s.Columns, keep)
	for i := range s.Bars {
		s.Bars[i].Cells = pick(s.Bars[i].Cells, keep)
	}
	return true
}

func pick(in []string, keep func(int) bool) []string {
	out := make([]string, 0, len(in))
	for i, v := range in {
		if keep(i) {
			out = append(out, v)
		}
	}
	return out
}

// FilterDates keeps bars dated within [start, end]; a zero bound is open.
// Returns the number of bars dropped.
func FilterDates(s *model.Series, start, end time.Time) int {
	return filter(s, func(b model.Bar) bool {
		d := b.Date()
		if !start.IsZero() && d.Before(model.DateOf(start)) {
			return false
		}
		if !end.IsZero() && d.After(model.DateOf(end)) {
			return false
		}
		return true
	})
}

// FilterSession keeps bars whose time of day lies in w.
func FilterSession(s *model.Series, w session.Window) int {
	return filter(s, func(b model.Bar) bool { return w.Contains(session.ClockOf(b.Time)) })
}

// DropDuplicates keeps the first bar of each timestamp in input order.
func DropDuplicates(s *model.Series) int {
	seen := make(map[time.Time]struct{}, len(s.Bars))
	return filter(s, func(b model.Bar) bool {
		if _, ok := seen[b.Time]; ok {
			return false
		}
		seen[b.Time] = struct{}{}
		return true
	})
}

// SortByTime orders bars ascending by timestamp, keeping input order for ties.
func SortByTime(s *model.Series) {
	sort.SliceStable(s.Bars, func(i, j int) bool { return s.Bars[i].Time.Before(s.Bars[j].Time) })
}

func filter(s *model.Series, keep func(model.Bar) bool) int {
	n := len(s.Bars)
	s.Bars = slices.DeleteFunc(s.Bars, func(b model.Bar) bool { return !keep(b) })
	return n - len(s.Bars)
}

func distinct(t *model.Table, col string) ([]string, error) {
	ci := t.Index(col)
	if ci < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
	}
	var out []string
	for _, row := range t.Rows {
		if !slices.Contains(out, row[ci]) {
			out = append(out, row[ci])
		}
	}
	return out, nil
}

func dateStr(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}
