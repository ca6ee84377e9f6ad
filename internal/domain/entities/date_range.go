package entities

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for job dates: ISO 8601 calendar dates without time.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a yyyy-MM-dd date as a UTC midnight
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate formats a time as a yyyy-MM-dd date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CalendarDate truncates t to its calendar date in loc, returned as a UTC midnight
// so it compares directly against parsed job dates.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two ranges share at least one day.
// A range ending on the day another begins overlaps it.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Contains reports whether day falls inside the range
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// String renders the range the way job cards display it
func (r DateRange) String() string {
	if r.Start.Equal(r.End) {
		return FormatDate(r.Start)
	}
	return FormatDate(r.Start) + " - " + FormatDate(r.End)
}
