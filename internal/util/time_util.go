package util

import (
	"etfreplica/internal/domain"
	"fmt"
	"time"
)

const layout = "2006-01-02"

// ParseRequestDate accepts either the canonical YYYYMMDD form or the
// dashed ISO form the front end sometimes sends, and returns the canonical
// date.
func ParseRequestDate(s string) (domain.Date, error) {
	if d, err := domain.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", &domain.InvalidDateError{Value: s}
	}
	if t.Format(layout) != s {
		return "", &domain.InvalidDateError{Value: s}
	}
	return domain.DateFromTime(t), nil
}

// ParseRange parses and orders-checks a start/end pair.
func ParseRange(start, end string) (domain.Date, domain.Date, error) {
	s, err := ParseRequestDate(start)
	if err != nil {
		return "", "", fmt.Errorf("invalid start date: %w", err)
	}
	e, err := ParseRequestDate(end)
	if err != nil {
		return "", "", fmt.Errorf("invalid end date: %w", err)
	}
	if s > e {
		return "", "", &domain.InvalidDateError{Value: start, Reason: fmt.Sprintf("start is after end %s", end)}
	}
	return s, e, nil
}
