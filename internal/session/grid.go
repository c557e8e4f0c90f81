// Package session generates the bar times a trading day should contain.
package session

import (
	"errors"
	"fmt"
	"time"
)

// Clock is a time of day in seconds since midnight.
type Clock int

// NewClock returns h:m:s as a Clock.
func NewClock(h, m, s int) Clock { return Clock(h*3600 + m*60 + s) }

// ClockOf returns the time of day of t.
func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return NewClock(h, m, s)
}

// ParseClock parses "15:04" or "15:04:05".
func ParseClock(s string) (Clock, error) {
	for _, l := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(l, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)%3600/60, int(c)%60)
}

// MarshalText renders the clock as 15:04:05 in JSON reports.
func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Class is the instrument class, which decides whether the settlement
// break applies.
type Class int

const (
	Futures Class = iota
	Stock
)

func (c Class) String() string {
	if c == Stock {
		return "stock"
	}
	return "futures"
}

// Daily futures settlement break, [14:00, 14:05). Fixed for the one
// exchange this tool targets; make it a parameter before adding markets.
var (
	ClearingStart = NewClock(14, 0, 0)
	ClearingEnd   = NewClock(14, 5, 0)
)

// Window is the regular session, Open inclusive, Close exclusive.
type Window struct {
	Open  Clock
	Close Clock
}

// DefaultWindow is the main trading session, 10:00 to 18:40.
var DefaultWindow = Window{Open: NewClock(10, 0, 0), Close: NewClock(18, 40, 0)}

// Contains reports whether c falls in [Open, Close).
func (w Window) Contains(c Clock) bool { return c >= w.Open && c < w.Close }

// ErrInvalidGrid is returned for a reversed range or a non-positive period.
var ErrInvalidGrid = errors.New("invalid grid")

// Grid returns the times from start up to but excluding end, stepping by
// periodMin minutes. For Futures, times inside the settlement break are
// left out. The last time is simply the last one before end.
func Grid(start, end Clock, periodMin int, class Class) ([]Clock, error) {
	if start > end {
		return nil, fmt.Errorf("%w: start %s after end %s", ErrInvalidGrid, start, end)
	}
	if periodMin <= 0 {
		return nil, fmt.Errorf("%w: period %d min", ErrInvalidGrid, periodMin)
	}
	step := Clock(periodMin * 60)
	times := make([]Clock, 0, int(end-start)/int(step)+1)
	for c := start; c < end; c += step {
		if class == Futures && c >= ClearingStart && c < ClearingEnd {
			continue
		}
		times = append(times, c)
	}
	return times, nil
}

// GridSet is Grid as a set, for diffing against observed times.
func GridSet(start, end Clock, periodMin int, class Class) (map[Clock]struct{}, error) {
	times, err := Grid(start, end, periodMin, class)
	if err != nil {
		return nil, err
	}
	set := make(map[Clock]struct{}, len(times))
	for _, c := range times {
		set[c] = struct{}{}
	}
	return set, nil
}
