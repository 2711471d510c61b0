package worklog

import "time"

// Interval is one recorded work session in local wall-clock time.
type Interval struct {
	ID    string
	Start time.Time
	End   time.Time
}

// Normalize truncates both bounds to whole seconds in local time.
func Normalize(interval Interval) Interval {
	interval.Start = interval.Start.In(time.Local).Truncate(time.Second)
	interval.End = interval.End.In(time.Local).Truncate(time.Second)
	return interval
}

// Equal reports structural equality of the bounds. IDs are ignored.
func (i Interval) Equal(other Interval) bool {
	return i.Start.Truncate(time.Second).Equal(other.Start.Truncate(time.Second)) &&
		i.End.Truncate(time.Second).Equal(other.End.Truncate(time.Second))
}

// Duration returns End minus Start, negative for inverted intervals.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Clone returns a copy of the slice that never aliases the input.
func Clone(intervals []Interval) []Interval {
	out := make([]Interval, len(intervals))
	copy(out, intervals)
	return out
}
