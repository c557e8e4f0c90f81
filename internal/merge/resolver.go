// Package merge reconciles two cleaned series of one instrument by
// choosing, for every calendar date, the source with the larger total
// volume. A date is never assembled from both sources.
package merge

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"quik-bars/internal/model"
)

var (
	ErrMissingColumn    = model.ErrMissingColumn
	ErrSchemaMismatch   = errors.New("source files have different schemas")
	ErrVolumeNotInteger = model.ErrVolumeNotInteger
)

// Source identifies one of the two inputs.
type Source int

const (
	SourceA Source = iota
	SourceB
)

func (s Source) String() string {
	if s == SourceB {
		return "file_2"
	}
	return "file_1"
}

// Options restrict the merge to an inclusive date range; zero is open.
type Options struct {
	StartDate time.Time
	EndDate   time.Time
}

// Choice records which source won a date.
type Choice struct {
	Date    time.Time
	Source  Source
	VolumeA int64 // zero when the date is absent from A
	VolumeB int64
	Ticker  string // greatest ticker label of the chosen rows
}

// Summary describes one series for diagnostics.
type Summary struct {
	Tickers []string
	Days    int
	From    time.Time
	Till    time.Time
}

// Summarize returns the tickers and date span of s.
func Summarize(s *model.Series) Summary {
	dates := s.Dates()
	sum := Summary{Tickers: s.Tickers(), Days: len(dates)}
	if len(dates) > 0 {
		sum.From, sum.Till = dates[0], dates[len(dates)-1]
	}
	return sum
}

// Result is the merged series and the per-date decisions, ascending by date.
type Result struct {
	Series *model.Series
	Days   []Choice
}

// CheckSchemas verifies both series carry datetime and an integer vol
// column, and have the same columns with the same kinds.
func CheckSchemas(a, b *model.Series) error {
	for i, s := range []*model.Series{a, b} {
		name := Source(i).String()
		if !s.Has(model.ColDatetime) {
			return fmt.Errorf("%w: no %q column in %s", ErrMissingColumn, model.ColDatetime, name)
		}
		if !s.Has(model.ColVolume) {
			return fmt.Errorf("%w: no volume (%q) column in %s", ErrMissingColumn, model.ColVolume, name)
		}
		if k, _ := s.KindOf(model.ColVolume); k != model.KindInt {
			return fmt.Errorf("%w: volume (%q) column in %s is %s", ErrVolumeNotInteger, model.ColVolume, name, k)
		}
	}

	var diff []string
	for _, c := range a.Columns {
		if !b.Has(c) {
			diff = append(diff, c)
		}
	}
	for _, c := range b.Columns {
		if !a.Has(c) {
			diff = append(diff, c)
		}
	}
	if len(diff) > 0 {
		slices.Sort(diff)
		return fmt.Errorf("%w: columns %q", ErrSchemaMismatch, diff)
	}

	var kinds []string
	for _, c := range a.Columns {
		ka, _ := a.KindOf(c)
		kb, _ := b.KindOf(c)
		if ka != kb {
			kinds = append(kinds, fmt.Sprintf("%s: %s vs %s", c, ka, kb))
		}
	}
	if len(kinds) > 0 {
		slices.Sort(kinds)
		return fmt.Errorf("%w: data types %q", ErrSchemaMismatch, kinds)
	}
	return nil
}

// DailyVolumes sums bar volume per calendar date.
func DailyVolumes(s *model.Series) map[time.Time]int64 {
	out := make(map[time.Time]int64)
	for _, b := range s.Bars {
		out[b.Date()] += b.Volume
	}
	return out
}

// Resolve merges a and b. Dates found in one source take that source;
// dates found in both take A when its volume is at least B's, else B.
func Resolve(a, b *model.Series, opts Options) (*Result, error) {
	if err := CheckSchemas(a, b); err != nil {
		return nil, err
	}
	aBars := inRange(a.Bars, opts)
	bBars := inRange(b.Bars, opts)

	volA := DailyVolumes(&model.Series{Bars: aBars})
	volB := DailyVolumes(&model.Series{Bars: bBars})

	winner := make(map[time.Time]Source, len(volA)+len(volB))
	for d, va := range volA {
		vb, ok := volB[d]
		if !ok || va-vb >= 0 {
			winner[d] = SourceA
		} else {
			winner[d] = SourceB
		}
	}
	for d := range volB {
		if _, ok := winner[d]; !ok {
			winner[d] = SourceB
		}
	}

	order := reorder(b.Columns, a.Columns)
	merged := &model.Series{Columns: slices.Clone(a.Columns), Period: a.Period}
	for _, bar := range aBars {
		if winner[bar.Date()] == SourceA {
			merged.Bars = append(merged.Bars, bar)
		}
	}
	for _, bar := range bBars {
		if winner[bar.Date()] == SourceB {
			cells := make([]string, len(order))
			for i, j := range order {
				cells[i] = bar.Cells[j]
			}
			merged.Bars = append(merged.Bars, model.Bar{Time: bar.Time, Volume: bar.Volume, Cells: cells})
		}
	}
	sort.SliceStable(merged.Bars, func(i, j int) bool { return merged.Bars[i].Time.Before(merged.Bars[j].Time) })
	merged.Kinds = slices.Clone(a.Kinds)

	res := &Result{Series: merged}
	ti := merged.Index(model.ColTicker)
	tickers := make(map[time.Time]string)
	if ti >= 0 {
		for _, bar := range merged.Bars {
			d := bar.Date()
			if t := bar.Cells[ti]; t > tickers[d] {
				tickers[d] = t
			}
		}
	}
	for _, d := range merged.Dates() {
		res.Days = append(res.Days, Choice{
			Date:    d,
			Source:  winner[d],
			VolumeA: volA[d],
			VolumeB: volB[d],
			Ticker:  tickers[d],
		})
	}
	return res, nil
}

// reorder maps each column of dst to its index in src.
func reorder(src, dst []string) []int {
	idx := make([]int, len(dst))
	for i, c := range dst {
		idx[i] = slices.Index(src, c)
	}
	return idx
}

func inRange(bars []model.Bar, opts Options) []model.Bar {
	if opts.StartDate.IsZero() && opts.EndDate.IsZero() {
		return bars
	}
	start, end := model.DateOf(opts.StartDate), model.DateOf(opts.EndDate)
	var out []model.Bar
	for _, b := range bars {
		d := b.Date()
		if !opts.StartDate.IsZero() && d.Before(start) {
			continue
		}
		if !opts.EndDate.IsZero() && d.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
