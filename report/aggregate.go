package report

import (
	"fmt"
	"slices"
	"time"

	"workhours/internal/timeutil"
	"workhours/worklog"
)

// NegativeDurationError reports an interval whose end lies before its start.
type NegativeDurationError struct {
	Interval worklog.Interval
}

func (e *NegativeDurationError) Error() string {
	return fmt.Sprintf(
		"negative duration: end %s is before start %s",
		worklog.FormatTimestamp(e.Interval.End),
		worklog.FormatTimestamp(e.Interval.Start),
	)
}

// FilterByDay keeps intervals whose start falls on the local calendar day of day.
func FilterByDay(intervals []worklog.Interval, day time.Time) []worklog.Interval {
	target := day.In(time.Local)
	out := make([]worklog.Interval, 0)
	for _, interval := range intervals {
		if timeutil.SameDay(interval.Start.In(time.Local), target) {
			out = append(out, interval)
		}
	}
	return out
}

func FilterByMonth(intervals []worklog.Interval, month YearMonth) []worklog.Interval {
	out := make([]worklog.Interval, 0)
	for _, interval := range intervals {
		if month.Contains(interval.Start) {
			out = append(out, interval)
		}
	}
	return out
}

// DistinctMonths lists the months present among start times, ascending.
func DistinctMonths(intervals []worklog.Interval) []YearMonth {
	seen := make(map[YearMonth]struct{}, len(intervals))
	months := make([]YearMonth, 0)
	for _, interval := range intervals {
		month := MonthOf(interval.Start)
		if _, ok := seen[month]; ok {
			continue
		}
		seen[month] = struct{}{}
		months = append(months, month)
	}
	slices.SortFunc(months, func(a, b YearMonth) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})
	return months
}

// DurationMinutes returns the whole minutes between start and end, truncated.
func DurationMinutes(interval worklog.Interval) (int, error) {
	elapsed := interval.End.Sub(interval.Start)
	if elapsed < 0 {
		return 0, &NegativeDurationError{Interval: interval}
	}
	return int(elapsed / time.Minute), nil
}

func TotalDurationMinutes(intervals []worklog.Interval) (int, error) {
	total := 0
	for _, interval := range intervals {
		minutes, err := DurationMinutes(interval)
		if err != nil {
			return 0, err
		}
		total += minutes
	}
	return total, nil
}

// FormatDuration renders minutes as HH:MM. Hours are padded to two digits and not capped.
func FormatDuration(minutes int) (string, error) {
	if minutes < 0 {
		return "", fmt.Errorf("format duration: minutes must be non-negative, got %d", minutes)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}
