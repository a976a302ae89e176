package utils

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration safely parses a duration string like "5m", falling back to
// five minutes on empty or malformed input.
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 5 * time.Minute
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 5 * time.Minute
	}
	return duration
}

// ParsePrice coerces a raw price cell to a float. The second return is false
// for empty or non-numeric cells; a price of zero is a valid value.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || IsPlaceholder(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// placeholders are cell values treated as "no data" in the source exports.
var placeholders = map[string]bool{
	"nil":  true,
	"null": true,
	"na":   true,
	"n/a":  true,
	"none": true,
	"-":    true,
}

// IsPlaceholder reports whether a trimmed cell value is a recognized
// no-data marker.
func IsPlaceholder(s string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(s))]
}

// CleanLabel trims a label cell and maps empty or placeholder values to the
// given sentinel.
func CleanLabel(s, sentinel string) string {
	s = strings.TrimSpace(s)
	if s == "" || IsPlaceholder(s) {
		return sentinel
	}
	return s
}
