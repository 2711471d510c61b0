package importer

import (
	"fmt"
	"strings"
	"time"

	"workhours/config"
	"workhours/worklog"
)

// GenericMapper reads start/end as full timestamps, or as clock times next to a
// date column. A duration column (minutes) replaces a missing end.
type GenericMapper struct{}

func (m *GenericMapper) Name() string {
	return "generic"
}

func (m *GenericMapper) Map(record Record, _ config.Rule) (*worklog.Interval, bool, error) {
	if record.Blank() {
		return nil, false, nil
	}

	date := record.Get("date", "datum", "day")
	startRaw := record.Get("start", "startdatetime", "begin", "von")
	endRaw := record.Get("end", "enddatetime", "finish", "bis")
	if startRaw == "" {
		return nil, false, nil
	}

	start, err := parseBound(date, startRaw)
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse start: %w", record.RowNumber, err)
	}

	var end time.Time
	if strings.TrimSpace(endRaw) != "" {
		end, err = parseBound(date, endRaw)
		if err != nil {
			return nil, false, fmt.Errorf("row %d: parse end: %w", record.RowNumber, err)
		}
	} else {
		minutes, err := parseMinutes(record.Get("minutes", "duration", "dauer"))
		if err != nil {
			return nil, false, fmt.Errorf("row %d: parse duration: %w", record.RowNumber, err)
		}
		if minutes == 0 {
			return nil, false, fmt.Errorf("row %d: missing end or duration", record.RowNumber)
		}
		end = start.Add(time.Duration(minutes) * time.Minute)
	}

	if end.Before(start) {
		return nil, false, fmt.Errorf("row %d: end must not be before start", record.RowNumber)
	}

	return &worklog.Interval{Start: start, End: end}, true, nil
}

func parseBound(date, value string) (time.Time, error) {
	if strings.TrimSpace(date) != "" {
		if parsed, err := parseDateAndClock(date, value); err == nil {
			return parsed, nil
		}
	}
	return parseDateTime(value)
}
