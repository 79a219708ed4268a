package models

import (
	"math"
	"strconv"
	"strings"
)

// OptionalString returns nil for blank form input, otherwise the trimmed value.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// OptionalInt parses a numeric form field. Blank input is absent, not zero.
func OptionalInt(field, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, invalid("%s must be a whole number", field)
	}
	return &n, nil
}

// OptionalFloat parses a decimal form field such as a price. Blank input is absent, not zero.
func OptionalFloat(field, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, invalid("%s must be a number", field)
	}
	return &f, nil
}

// ParseID parses a record ID taken from a route or an argument.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("invalid id %q", s)
	}
	return id, nil
}
