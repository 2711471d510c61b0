package web

import (
	"time"

	"workhours/internal/timeutil"
	"workhours/report"
)

type dayPageView struct {
	Title        string
	Day          string
	PreviousDay  string
	NextDay      string
	CurrentMonth string
	Entries      []report.EntryRow
	Total        string
	Quarantined  bool
}

type monthRowView struct {
	Date       string
	FirstStart string
	LastEnd    string
	Worked     string
	Break      string
	Count      int
	DayLink    string
}

type monthPageView struct {
	Title         string
	CurrentMonth  string
	PreviousMonth string
	NextMonth     string
	Months        []string
	Rows          []monthRowView
	Entries       []report.EntryRow
	Total         string
}

type dayPayload struct {
	Date         string         `json:"date"`
	Entries      []entryPayload `json:"entries"`
	TotalMinutes int            `json:"totalMinutes"`
	Total        string         `json:"total"`
}

type entryPayload struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
	Duration        string `json:"duration"`
	Flag            string `json:"flag,omitempty"`
}

type daySummaryPayload struct {
	Date          string `json:"date"`
	FirstStart    string `json:"firstStart"`
	LastEnd       string `json:"lastEnd"`
	WorkedMinutes int    `json:"workedMinutes"`
	BreakMinutes  int    `json:"breakMinutes"`
	Count         int    `json:"count"`
}

type monthPayload struct {
	Month        string              `json:"month"`
	Days         []daySummaryPayload `json:"days"`
	Entries      []entryPayload      `json:"entries"`
	TotalMinutes int                 `json:"totalMinutes"`
	Total        string              `json:"total"`
}

func buildDayPage(view report.DayView, quarantined bool) dayPageView {
	day := view.Date
	return dayPageView{
		Title:        "workhours - day " + day.Format(timeutil.DateLayout),
		Day:          day.Format(timeutil.DateLayout),
		PreviousDay:  day.AddDate(0, 0, -1).Format(timeutil.DateLayout),
		NextDay:      day.AddDate(0, 0, 1).Format(timeutil.DateLayout),
		CurrentMonth: report.MonthOf(day).String(),
		Entries:      view.Entries,
		Total:        view.Total,
		Quarantined:  quarantined,
	}
}

func buildMonthPage(monthReport report.MonthReport, months []report.YearMonth) monthPageView {
	month := monthReport.Month
	labels := make([]string, 0, len(months))
	for _, m := range months {
		labels = append(labels, m.String())
	}
	return monthPageView{
		Title:         "workhours - month " + month.String(),
		CurrentMonth:  month.String(),
		PreviousMonth: month.Prev().String(),
		NextMonth:     month.Next().String(),
		Months:        labels,
		Rows:          fillMonthDays(month, monthReport.Days),
		Entries:       monthReport.Entries,
		Total:         monthReport.Total,
	}
}

// fillMonthDays returns one row per calendar day so empty days stay visible.
func fillMonthDays(month report.YearMonth, days []report.DaySummary) []monthRowView {
	index := make(map[string]report.DaySummary, len(days))
	for _, day := range days {
		index[day.Date.Format(timeutil.DateLayout)] = day
	}

	out := make([]monthRowView, 0, 31)
	for day := month.Start(); !day.After(month.End()); day = day.AddDate(0, 0, 1) {
		key := day.Format(timeutil.DateLayout)
		row := monthRowView{Date: key, Worked: "00:00", Break: "00:00", DayLink: "/day/" + key}
		if summary, ok := index[key]; ok {
			row.FirstStart = summary.FirstStart.Format(timeutil.ClockLayout)
			row.LastEnd = summary.LastEnd.Format(timeutil.ClockLayout)
			row.Worked = summary.Worked()
			row.Break = summary.Break()
			row.Count = summary.Count
		}
		out = append(out, row)
	}
	return out
}

func newDayPayload(view report.DayView) dayPayload {
	return dayPayload{
		Date:         view.Date.Format(timeutil.DateLayout),
		Entries:      newEntryPayloads(view.Entries),
		TotalMinutes: view.TotalMinutes,
		Total:        view.Total,
	}
}

func newMonthPayload(monthReport report.MonthReport) monthPayload {
	days := make([]daySummaryPayload, 0, len(monthReport.Days))
	for _, day := range monthReport.Days {
		days = append(days, daySummaryPayload{
			Date:          day.Date.Format(timeutil.DateLayout),
			FirstStart:    formatClock(day.FirstStart),
			LastEnd:       formatClock(day.LastEnd),
			WorkedMinutes: day.WorkedMinutes,
			BreakMinutes:  day.BreakMinutes,
			Count:         day.Count,
		})
	}
	return monthPayload{
		Month:        monthReport.Month.String(),
		Days:         days,
		Entries:      newEntryPayloads(monthReport.Entries),
		TotalMinutes: monthReport.TotalMinutes,
		Total:        monthReport.Total,
	}
}

func newEntryPayloads(rows []report.EntryRow) []entryPayload {
	out := make([]entryPayload, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryPayload{
			ID:              row.ID,
			Date:            row.Date,
			Start:           row.Start,
			End:             row.End,
			DurationMinutes: row.DurationMins,
			Duration:        row.Duration,
			Flag:            row.Flag,
		})
	}
	return out
}

func formatClock(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(timeutil.ClockLayout)
}
