package worklog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// TimestampLayout is the persisted timestamp form: local time, second precision, no zone.
const TimestampLayout = "2006-01-02T15:04:05"

type record struct {
	ID    string `json:"id,omitempty"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Encode serializes intervals as a JSON array of {id,start,end} records.
func Encode(intervals []Interval) (string, error) {
	records := make([]record, 0, len(intervals))
	for _, interval := range intervals {
		records = append(records, record{
			ID:    interval.ID,
			Start: FormatTimestamp(interval.Start),
			End:   FormatTimestamp(interval.End),
		})
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode intervals: %w", err)
	}
	return string(raw), nil
}

// Decode parses the persisted form. Records without an id keep an empty ID.
func Decode(raw string) ([]Interval, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("decode intervals: expected a JSON array")
	}

	var records []record
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode intervals: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("decode intervals: unexpected data after the array")
	}

	intervals := make([]Interval, 0, len(records))
	for i, rec := range records {
		start, err := ParseTimestamp(rec.Start)
		if err != nil {
			return nil, fmt.Errorf("decode intervals: record %d start: %w", i, err)
		}
		end, err := ParseTimestamp(rec.End)
		if err != nil {
			return nil, fmt.Errorf("decode intervals: record %d end: %w", i, err)
		}
		intervals = append(intervals, Interval{ID: rec.ID, Start: start, End: end})
	}
	return intervals, nil
}

func FormatTimestamp(value time.Time) string {
	return value.In(time.Local).Format(TimestampLayout)
}

// ParseTimestamp accepts the persisted layout and, for older data, RFC3339.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, &ValidationError{Field: "timestamp", Reason: "is empty"}
	}
	if parsed, err := time.ParseInLocation(TimestampLayout, value, time.Local); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(time.Local).Truncate(time.Second), nil
	}
	return time.Time{}, &ValidationError{
		Field:  "timestamp",
		Reason: fmt.Sprintf("%q does not match %s", raw, TimestampLayout),
	}
}
