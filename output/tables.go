package output

import (
	"fmt"
	"strconv"

	"workhours/internal/timeutil"
	"workhours/report"
	"workhours/worklog"
)

func intervalTable(intervals []worklog.Interval) table {
	data := table{
		headers: []string{"ID", "Start", "End", "Minutes", "Duration"},
		rows:    make([][]string, 0, len(intervals)),
	}
	for _, interval := range intervals {
		minutes, duration := "", ""
		if value, err := report.DurationMinutes(interval); err == nil {
			minutes = strconv.Itoa(value)
			duration, _ = report.FormatDuration(value)
		}
		data.rows = append(data.rows, []string{
			interval.ID,
			worklog.FormatTimestamp(interval.Start),
			worklog.FormatTimestamp(interval.End),
			minutes,
			duration,
		})
	}
	return data
}

func monthTable(monthReport report.MonthReport) table {
	data := table{
		headers: []string{"Date", "FirstStart", "LastEnd", "Worked", "WorkedMinutes", "Break", "Entries"},
		rows:    make([][]string, 0, len(monthReport.Days)+1),
	}
	for _, day := range monthReport.Days {
		data.rows = append(data.rows, []string{
			day.Date.Format(timeutil.DateLayout),
			day.FirstStart.Format(timeutil.ClockLayout),
			day.LastEnd.Format(timeutil.ClockLayout),
			day.Worked(),
			strconv.Itoa(day.WorkedMinutes),
			day.Break(),
			strconv.Itoa(day.Count),
		})
	}
	data.rows = append(data.rows, []string{
		"Total " + monthReport.Month.String(),
		"",
		"",
		monthReport.Total,
		strconv.Itoa(monthReport.TotalMinutes),
		"",
		strconv.Itoa(len(monthReport.Entries)),
	})
	return data
}

// WriteMonthReport writes one row per day plus a closing total row.
func WriteMonthReport(path, format string, monthReport report.MonthReport) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeCSV(path, monthTable(monthReport))
	case "excel", "xlsx":
		return writeExcel(path, monthReport.Month.String(), monthTable(monthReport))
	default:
		return fmt.Errorf("unsupported output format for month reports: %s", format)
	}
}
