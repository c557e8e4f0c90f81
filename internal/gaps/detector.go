// Package gaps compares intraday bar times against the session grid.
package gaps

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"quik-bars/internal/model"
	"quik-bars/internal/session"
)

// DayReport describes one date whose bars deviate from the grid. The
// clock fields are meaningful only when the matching count is non-zero.
type DayReport struct {
	Date          time.Time     `json:"date"`
	Expected      int           `json:"expected"`
	Missing       int           `json:"missing"`
	FirstMissing  session.Clock `json:"first_missing"`
	LastMissing   session.Clock `json:"last_missing"`
	Irregular     int           `json:"irregular"`
	LastIrregular session.Clock `json:"last_irregular"`
}

func (d DayReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | WARNING: ", d.Date.Format(time.DateOnly))
	if d.Missing > 0 {
		fmt.Fprintf(&b, "missing %d of %d bars, [%s : %s] ", d.Missing, d.Expected, d.FirstMissing, d.LastMissing)
	}
	if d.Irregular > 0 {
		fmt.Fprintf(&b, "Irregular bars: %d, last %s. ", d.Irregular, d.LastIrregular)
	}
	return strings.TrimSpace(b.String())
}

// Report is the result of a gap check over a whole series.
type Report struct {
	RunID      string      `json:"run_id,omitempty"`
	Period     int         `json:"period_min"`
	Class      string      `json:"class"`
	BarsPerDay int         `json:"bars_per_day"`
	Days       []DayReport `json:"days"`
}

// OK reports whether no date had missing or irregular bars.
func (r *Report) OK() bool { return len(r.Days) == 0 }

// Log writes one warning per deviating date, or a single OK line.
func (r *Report) Log(log *slog.Logger) {
	log.Info("total bars per day", "bars", r.BarsPerDay, "period_min", r.Period, "class", r.Class)
	if r.OK() {
		log.Info("No missing/irregular bars - OK")
		return
	}
	for _, d := range r.Days {
		log.Warn(d.String())
	}
}

// ForSeries returns the bar length to check s at. Symbolic and unknown
// periods have no grid and report false.
func ForSeries(s *model.Series) (int, bool) {
	return s.Period.Minutes()
}

// Detect partitions s by calendar date and diffs each day's bar times
// against the session grid for periodMin and class.
func Detect(s *model.Series, periodMin int, class session.Class, w session.Window) (*Report, error) {
	grid, err := session.GridSet(w.Open, w.Close, periodMin, class)
	if err != nil {
		return nil, err
	}
	rep := &Report{Period: periodMin, Class: class.String(), BarsPerDay: len(grid)}

	byDate := make(map[time.Time]map[session.Clock]struct{})
	for _, b := range s.Bars {
		d := b.Date()
		if byDate[d] == nil {
			byDate[d] = make(map[session.Clock]struct{})
		}
		byDate[d][session.ClockOf(b.Time)] = struct{}{}
	}

	for _, date := range s.Dates() {
		observed := byDate[date]
		missing := difference(grid, observed)
		irregular := difference(observed, grid)
		if len(missing) == 0 && len(irregular) == 0 {
			continue
		}
		d := DayReport{Date: date, Expected: len(grid), Missing: len(missing), Irregular: len(irregular)}
		if len(missing) > 0 {
			d.FirstMissing, d.LastMissing = missing[0], missing[len(missing)-1]
		}
		if len(irregular) > 0 {
			d.LastIrregular = irregular[len(irregular)-1]
		}
		rep.Days = append(rep.Days, d)
	}
	return rep, nil
}

// difference returns a − b in ascending order.
func difference(a, b map[session.Clock]struct{}) []session.Clock {
	var out []session.Clock
	for c := range a {
		if _, ok := b[c]; !ok {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}
