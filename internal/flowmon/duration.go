package flowmon

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrMalformedValue is returned for attribute text that cannot be decoded.
var ErrMalformedValue = errors.New("malformed value")

// sign, magnitude (decimal or scientific), optional unit
var durationRe = regexp.MustCompile(`^\s*([+-]?)((?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)\s*(ns|us|ms|s)?\s*$`)

var unitNanos = map[string]float64{
	"":   1,
	"ns": 1,
	"us": 1e3,
	"ms": 1e6,
	"s":  1e9,
}

// ParseDuration decodes FlowMonitor time text such as "+1.5e+09ns" into nanoseconds.
// A missing unit means nanoseconds. A leading '-' yields a negative value.
func ParseDuration(s string) (float64, error) {
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: duration %q", ErrMalformedValue, s)
	}

	mag, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q: %v", ErrMalformedValue, s, err)
	}

	v := mag * unitNanos[m[3]]
	if m[1] == "-" {
		v = -v
	}
	return v, nil
}
