package importer

import (
	"testing"
	"time"

	"workhours/config"
	"workhours/worklog"
)

func hoursRecord(row int, date, hours, dayTotal string) Record {
	return newRecord(row, map[string]string{
		"date":     date,
		"hours":    hours,
		"daytotal": dayTotal,
	})
}

func mapAll(t *testing.T, mapper Mapper, rule config.Rule, records ...Record) []worklog.Interval {
	t.Helper()
	out := make([]worklog.Interval, 0, len(records))
	for _, record := range records {
		interval, ok, err := mapper.Map(record, rule)
		if err != nil {
			t.Fatalf("map row %d: %v", record.RowNumber, err)
		}
		if ok {
			out = append(out, *interval)
		}
	}
	return out
}

func assertTime(t *testing.T, want, got time.Time, label string) {
	t.Helper()
	if !want.Equal(got) {
		t.Fatalf("%s: want %s, got %s", label, want.Format(time.RFC3339), got.Format(time.RFC3339))
	}
}

func TestHoursMapper_SequentiallyAssignsTimesWithinDay(t *testing.T) {
	t.Parallel()

	rule := config.Rule{Mapper: "hours", DayStart: "08:00"}
	intervals := mapAll(t, &HoursMapper{}, rule,
		hoursRecord(2, "05.01.2026", "2,00", ""),
		hoursRecord(3, "05.01.2026", "1,50", ""),
		hoursRecord(4, "05.01.2026", "0:30", ""),
	)
	if len(intervals) != 3 {
		t.Fatalf("expected 3 intervals, got %d", len(intervals))
	}

	dayStart := time.Date(2026, 1, 5, 8, 0, 0, 0, time.Local)
	assertTime(t, dayStart, intervals[0].Start, "first start")
	assertTime(t, dayStart.Add(2*time.Hour), intervals[0].End, "first end")
	assertTime(t, dayStart.Add(2*time.Hour), intervals[1].Start, "second start")
	assertTime(t, dayStart.Add(3*time.Hour+30*time.Minute), intervals[2].Start, "third start")
	assertTime(t, dayStart.Add(4*time.Hour), intervals[2].End, "third end")
}

func TestHoursMapper_InsertsBreakAtMiddleOfDayTotal(t *testing.T) {
	t.Parallel()

	rule := config.Rule{Mapper: "hours", DayStart: "08:00", BreakMinutes: 60}
	intervals := mapAll(t, &HoursMapper{}, rule,
		hoursRecord(2, "2026-01-05", "", "8"),
		hoursRecord(3, "2026-01-05", "4", ""),
		hoursRecord(4, "2026-01-05", "4", ""),
	)
	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(intervals))
	}

	assertTime(t, time.Date(2026, 1, 5, 12, 0, 0, 0, time.Local), intervals[0].End, "morning end")
	assertTime(t, time.Date(2026, 1, 5, 13, 0, 0, 0, time.Local), intervals[1].Start, "afternoon start")
	assertTime(t, time.Date(2026, 1, 5, 17, 0, 0, 0, time.Local), intervals[1].End, "afternoon end")
}

func TestHoursMapper_BreakBeforeCrossingSixHoursWithoutTotal(t *testing.T) {
	t.Parallel()

	rule := config.Rule{Mapper: "hours", DayStart: "08:00", BreakMinutes: 30}
	intervals := mapAll(t, &HoursMapper{}, rule,
		hoursRecord(2, "2026-01-05", "3", ""),
		hoursRecord(3, "2026-01-05", "2", ""),
		hoursRecord(4, "2026-01-05", "2", ""),
	)

	assertTime(t, time.Date(2026, 1, 5, 13, 0, 0, 0, time.Local), intervals[1].End, "second end")
	assertTime(t, time.Date(2026, 1, 5, 13, 30, 0, 0, time.Local), intervals[2].Start, "third start after break")
}

func TestHoursMapper_DaysAreIndependent(t *testing.T) {
	t.Parallel()

	rule := config.Rule{Mapper: "hours", DayStart: "09:00"}
	intervals := mapAll(t, &HoursMapper{}, rule,
		hoursRecord(2, "2026-01-05", "1", ""),
		hoursRecord(3, "2026-01-06", "1", ""),
	)
	assertTime(t, time.Date(2026, 1, 6, 9, 0, 0, 0, time.Local), intervals[1].Start, "second day start")
}

func TestHoursMapper_RequiresDayStart(t *testing.T) {
	t.Parallel()

	_, _, err := (&HoursMapper{}).Map(hoursRecord(2, "2026-01-05", "1", ""), config.Rule{Mapper: "hours"})
	if err == nil {
		t.Fatalf("expected error without day start")
	}
}
