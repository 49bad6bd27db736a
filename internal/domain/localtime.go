package domain

import (
	"fmt"
	"strings"
	"time"
)

var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339Nano,
}

// WallClock keeps the calendar fields of t and pins them to UTC. Schedules are
// compared as local wall-clock values, never across zones.
func WallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ParseLocalDateTime accepts 2006-01-02T15:04:05, the same without seconds, or
// RFC 3339. Any offset is dropped.
func ParseLocalDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range localDateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return WallClock(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a date-time like 2006-01-02T15:04:05", ErrValidation, value)
}
