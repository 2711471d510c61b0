package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseDate parses YYYY-MM-DD as a local calendar day.
func ParseDate(raw string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", raw)
	}
	return day, nil
}

// ParseClockMinutes parses HH:MM into minutes after midnight.
func ParseClockMinutes(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	parts := strings.Split(value, ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM)", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return hour*60 + minute, nil
}

// CombineDateClock returns the local timestamp for an HH:MM clock on the given day.
func CombineDateClock(day time.Time, clock string) (time.Time, error) {
	minutes, err := ParseClockMinutes(clock)
	if err != nil {
		return time.Time{}, err
	}
	base := StartOfDay(day)
	return time.Date(base.Year(), base.Month(), base.Day(), minutes/60, minutes%60, 0, 0, base.Location()), nil
}
