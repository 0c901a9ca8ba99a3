package utils

import (
	"regexp"
	"time"
)

// Constants
const (
	DateLayout = "2006-01-02"
)

var timeOfDayRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }

// ValidTimeOfDay reports whether s is a 24-hour HH:MM string.
func ValidTimeOfDay(s string) bool {
	return timeOfDayRe.MatchString(s)
}

// ParseCalendarDate parses a YYYY-MM-DD string into a date, rejecting values
// like 2024-02-30 that match the shape but not the calendar.
func ParseCalendarDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
