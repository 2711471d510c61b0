package output

import (
	"fmt"
	"strings"

	"workhours/worklog"
)

// Writer exports raw intervals.
type Writer interface {
	Write(path string, intervals []worklog.Interval) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// table is one header row plus data rows, shared by the CSV and Excel sinks.
type table struct {
	headers []string
	rows    [][]string
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
