package output

import (
	"encoding/csv"
	"fmt"
	"os"

	"workhours/worklog"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, intervals []worklog.Interval) error {
	return writeCSV(path, intervalTable(intervals))
}

func writeCSV(path string, data table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(data.headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
