package report

import (
	"slices"
	"time"

	"workhours/internal/classify"
	"workhours/internal/timeutil"
	"workhours/worklog"
)

type EntryRow struct {
	ID           string
	Date         string
	Start        string
	End          string
	DurationMins int
	Duration     string
	Flag         string
}

// DaySummary aggregates one calendar day. BreakMinutes is the part of the
// first-start to last-end span not covered by any interval.
type DaySummary struct {
	Date          time.Time
	FirstStart    time.Time
	LastEnd       time.Time
	WorkedMinutes int
	BreakMinutes  int
	Count         int
	Entries       []EntryRow
}

func (d DaySummary) Worked() string {
	return formatOrZero(d.WorkedMinutes)
}

func (d DaySummary) Break() string {
	return formatOrZero(d.BreakMinutes)
}

type DayView struct {
	Date         time.Time
	Entries      []EntryRow
	TotalMinutes int
	Total        string
}

type MonthReport struct {
	Month        YearMonth
	Days         []DaySummary
	Entries      []EntryRow
	TotalMinutes int
	Total        string
}

// BuildDayView lists the intervals of one day in insertion order with a total.
func BuildDayView(intervals []worklog.Interval, day time.Time) (DayView, error) {
	dayEntries := FilterByDay(intervals, day)
	rows, total, err := entryRows(dayEntries)
	if err != nil {
		return DayView{}, err
	}
	return DayView{
		Date:         timeutil.StartOfDay(day.In(time.Local)),
		Entries:      rows,
		TotalMinutes: total,
		Total:        formatOrZero(total),
	}, nil
}

// BuildMonthReport lists a month's intervals sorted by start, grouped per day.
func BuildMonthReport(intervals []worklog.Interval, month YearMonth) (MonthReport, error) {
	monthEntries := FilterByMonth(intervals, month)
	sortByStart(monthEntries)

	rows, total, err := entryRows(monthEntries)
	if err != nil {
		return MonthReport{}, err
	}
	days, err := BuildDaySummaries(monthEntries)
	if err != nil {
		return MonthReport{}, err
	}
	return MonthReport{
		Month:        month,
		Days:         days,
		Entries:      rows,
		TotalMinutes: total,
		Total:        formatOrZero(total),
	}, nil
}

// BuildDaySummaries groups intervals by local start day, ascending.
func BuildDaySummaries(intervals []worklog.Interval) ([]DaySummary, error) {
	if len(intervals) == 0 {
		return []DaySummary{}, nil
	}

	byDay := make(map[string][]worklog.Interval)
	for _, interval := range intervals {
		day := interval.Start.In(time.Local).Format(timeutil.DateLayout)
		byDay[day] = append(byDay[day], interval)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	slices.Sort(days)

	summaries := make([]DaySummary, 0, len(days))
	for _, day := range days {
		summary, err := summarizeDay(byDay[day])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func summarizeDay(intervals []worklog.Interval) (DaySummary, error) {
	sorted := worklog.Clone(intervals)
	sortByStart(sorted)

	rows, worked, err := entryRows(sorted)
	if err != nil {
		return DaySummary{}, err
	}

	start := sorted[0].Start
	end := sorted[0].End
	for _, interval := range sorted[1:] {
		if interval.End.After(end) {
			end = interval.End
		}
	}

	span := end.Sub(start)
	covered := mergedCoverage(sorted)
	breakDuration := span - covered
	if breakDuration < 0 {
		breakDuration = 0
	}

	return DaySummary{
		Date:          timeutil.StartOfDay(start.In(time.Local)),
		FirstStart:    start,
		LastEnd:       end,
		WorkedMinutes: worked,
		BreakMinutes:  int(breakDuration / time.Minute),
		Count:         len(sorted),
		Entries:       rows,
	}, nil
}

// mergedCoverage expects intervals sorted by start.
func mergedCoverage(sorted []worklog.Interval) time.Duration {
	covered := time.Duration(0)
	currentStart := sorted[0].Start
	currentEnd := sorted[0].End

	for _, candidate := range sorted[1:] {
		if candidate.Start.After(currentEnd) {
			covered += currentEnd.Sub(currentStart)
			currentStart = candidate.Start
			currentEnd = candidate.End
			continue
		}
		if candidate.End.After(currentEnd) {
			currentEnd = candidate.End
		}
	}
	return covered + currentEnd.Sub(currentStart)
}

func entryRows(intervals []worklog.Interval) ([]EntryRow, int, error) {
	flags := classify.Flags(intervals)
	rows := make([]EntryRow, 0, len(intervals))
	total := 0
	for i, interval := range intervals {
		minutes, err := DurationMinutes(interval)
		if err != nil {
			return nil, 0, err
		}
		total += minutes
		local := interval.Start.In(time.Local)
		rows = append(rows, EntryRow{
			ID:           interval.ID,
			Date:         local.Format(timeutil.DateLayout),
			Start:        local.Format(timeutil.ClockLayout),
			End:          interval.End.In(time.Local).Format(timeutil.ClockLayout),
			DurationMins: minutes,
			Duration:     formatOrZero(minutes),
			Flag:         flags[i],
		})
	}
	return rows, total, nil
}

func sortByStart(intervals []worklog.Interval) {
	slices.SortStableFunc(intervals, func(a, b worklog.Interval) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End.Compare(b.End)
	})
}

func formatOrZero(minutes int) string {
	formatted, err := FormatDuration(minutes)
	if err != nil {
		return "00:00"
	}
	return formatted
}
