package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"workhours/internal/timeutil"
	"workhours/worklog"
)

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
}

var dateTimeLayouts = []string{
	worklog.TimestampLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02.01.2006 15:04",
	"02.01.2006 03:04 PM",
}

// parseHoursToMinutes accepts decimal hours with dot or comma ("7.5", "7,5") and H:MM ("7:30").
func parseHoursToMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}
	if strings.Contains(cleaned, ":") {
		parts := strings.SplitN(cleaned, ":", 2)
		hours, errH := strconv.Atoi(parts[0])
		minutes, errM := strconv.Atoi(parts[1])
		if errH != nil || errM != nil || hours < 0 || minutes < 0 || minutes > 59 {
			return 0, fmt.Errorf("parse hours %q", raw)
		}
		return hours*60 + minutes, nil
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours %q: %w", raw, err)
	}

	minutes := int(math.Round(hours * 60))
	if minutes < 0 {
		return 0, fmt.Errorf("hours must not be negative")
	}
	return minutes, nil
}

func parseMinutes(raw string) (int, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	minutes, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", raw, err)
	}

	rounded := int(math.Round(minutes))
	if rounded < 0 {
		return 0, fmt.Errorf("minutes must not be negative")
	}
	return rounded, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// parseDateAndClock combines a date cell with an HH:MM or hh:mm AM/PM cell.
func parseDateAndClock(dateValue, clockValue string) (time.Time, error) {
	day, err := parseDate(dateValue)
	if err != nil {
		return time.Time{}, err
	}
	clockValue = strings.TrimSpace(clockValue)
	if clockValue == "" {
		return time.Time{}, fmt.Errorf("missing time")
	}
	if combined, err := timeutil.CombineDateClock(day, clockValue); err == nil {
		return combined, nil
	}
	if parsed, err := time.ParseInLocation("03:04 PM", clockValue, time.Local); err == nil {
		return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %q", clockValue)
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(time.Local), nil
	}
	for _, layout := range dateTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", value)
}
