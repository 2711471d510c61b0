package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"workhours/report"
	"workhours/worklog"
)

func sampleIntervals() []worklog.Interval {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.Local)
	return []worklog.Interval{
		{ID: "a", Start: day.Add(8 * time.Hour), End: day.Add(12 * time.Hour)},
		{ID: "b", Start: day.Add(13 * time.Hour), End: day.Add(17*time.Hour + 30*time.Minute)},
		{ID: "c", Start: day.AddDate(0, 0, 1).Add(9 * time.Hour), End: day.AddDate(0, 0, 1).Add(10 * time.Hour)},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestCSVWriter_WritesIntervals(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "intervals.csv")
	writer, err := WriterForFormat("CSV")
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if err := writer.Write(path, sampleIntervals()); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if rows[1][1] != "2026-01-05T08:00:00" || rows[1][3] != "240" || rows[1][4] != "04:00" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
}

func TestExcelWriter_WritesIntervals(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "intervals.xlsx")
	writer, err := WriterForFormat("xlsx")
	if err != nil {
		t.Fatalf("writer: %v", err)
	}
	if err := writer.Write(path, sampleIntervals()); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer file.Close()
	value, err := file.GetCellValue("Intervals", "E3")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if value != "04:30" {
		t.Fatalf("expected 04:30, got %q", value)
	}
}

func TestWriteMonthReport_CSVIncludesTotalRow(t *testing.T) {
	t.Parallel()

	month := report.YearMonth{Year: 2026, Month: time.January}
	monthReport, err := report.BuildMonthReport(sampleIntervals(), month)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	path := filepath.Join(t.TempDir(), "month.csv")
	if err := WriteMonthReport(path, "csv", monthReport); err != nil {
		t.Fatalf("write report: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 4 {
		t.Fatalf("expected header, 2 days and total, got %d rows", len(rows))
	}
	if rows[1][0] != "2026-01-05" || rows[1][3] != "08:30" || rows[1][5] != "01:00" {
		t.Fatalf("unexpected first day: %v", rows[1])
	}
	total := rows[3]
	if total[0] != "Total 2026-01" || total[3] != "09:30" || total[6] != "3" {
		t.Fatalf("unexpected total row: %v", total)
	}
}

func TestWriteMonthReport_ExcelUsesMonthSheet(t *testing.T) {
	t.Parallel()

	month := report.YearMonth{Year: 2026, Month: time.January}
	monthReport, err := report.BuildMonthReport(sampleIntervals(), month)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	path := filepath.Join(t.TempDir(), "month.xlsx")
	if err := WriteMonthReport(path, "excel", monthReport); err != nil {
		t.Fatalf("write report: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open excel: %v", err)
	}
	defer file.Close()
	if got := file.GetSheetName(0); got != "2026-01" {
		t.Fatalf("expected sheet 2026-01, got %q", got)
	}
}

func TestWriterForFormat_Unsupported(t *testing.T) {
	t.Parallel()

	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if err := WriteMonthReport(filepath.Join(t.TempDir(), "x"), "pdf", report.MonthReport{}); err == nil {
		t.Fatalf("expected error for unsupported month format")
	}
}
