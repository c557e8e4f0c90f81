package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrVolumeNotInteger is returned when a volume cannot be held as an integer.
var ErrVolumeNotInteger = errors.New("volume is not integer")

var maxVolume = decimal.NewFromInt(math.MaxInt64)

// ParseVolume parses int or integral decimal text ("100", "100.0", "1e3").
// Fractional, negative, non-numeric and out of int64 range values are rejected.
func ParseVolume(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrVolumeNotInteger, s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q has a fractional part", ErrVolumeNotInteger, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", ErrVolumeNotInteger, s)
	}
	if d.GreaterThan(maxVolume) {
		return 0, fmt.Errorf("%w: %q does not fit in int64", ErrVolumeNotInteger, s)
	}
	return d.IntPart(), nil
}
