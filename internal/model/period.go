package model

import (
	"strconv"
	"strings"
)

// Period is the nominal bar granularity as exported, e.g. "5" or "daily".
type Period string

var knownMinutes = map[int]bool{1: true, 2: true, 5: true, 10: true, 15: true, 30: true, 60: true}

var knownSymbols = map[string]bool{"daily": true, "weekly": true, "monthly": true}

// Minutes returns the bar length for the fixed intraday periods.
// Symbolic and unknown periods report false.
func (p Period) Minutes() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(p)))
	if err != nil || !knownMinutes[n] {
		return 0, false
	}
	return n, true
}

// Known reports whether p is one of the enumerated periods.
func (p Period) Known() bool {
	if _, ok := p.Minutes(); ok {
		return true
	}
	return knownSymbols[strings.ToLower(strings.TrimSpace(string(p)))]
}

func (p Period) String() string { return string(p) }
