package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrParseTime is returned for date, time or datetime text no layout accepts.
var ErrParseTime = errors.New("unparseable date/time")

// DatetimeLayout is how combined timestamps are written.
const DatetimeLayout = "2006-01-02 15:04:05.999999999"

var (
	dateLayouts     = []string{"20060102", "2006-01-02", "02.01.2006"}
	timeLayouts     = []string{"150405", "15:04:05", "15:04"}
	datetimeLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"20060102 150405",
		"20060102T150405",
		"2006-01-02",
	}
)

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatTime renders t with DatetimeLayout; whole seconds carry no fraction.
func FormatTime(t time.Time) string { return t.Format(DatetimeLayout) }

// ParseDate parses an ISO date as given on the command line.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrParseTime, s)
	}
	return t, nil
}

// ParseDateTime combines a separate date and time-of-day. A five digit
// time has its leading zero restored ("95900" is 09:59:00).
func ParseDateTime(date, clock string) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	if len(clock) == 5 && strings.Trim(clock, "0123456789") == "" {
		clock = "0" + clock
	}
	d, err := parseAny(date, dateLayouts)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrParseTime, date)
	}
	c, err := parseAny(clock, timeLayouts)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q", ErrParseTime, clock)
	}
	return d.Add(time.Duration(c.Hour())*time.Hour +
		time.Duration(c.Minute())*time.Minute +
		time.Duration(c.Second())*time.Second +
		time.Duration(c.Nanosecond())), nil
}

// ParseDatetime parses a combined timestamp column value.
func ParseDatetime(s string) (time.Time, error) {
	t, err := parseAny(strings.TrimSpace(s), datetimeLayouts)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: datetime %q", ErrParseTime, s)
	}
	return t, nil
}

func parseAny(s string, layouts []string) (time.Time, error) {
	var err error
	for _, l := range layouts {
		var t time.Time
		if t, err = time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
