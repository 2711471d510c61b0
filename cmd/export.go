package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"workhours/output"
	"workhours/report"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportMonth  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded intervals to CSV/Excel",
	Long: `Export recorded intervals.

Modes:
- raw: every interval with id, start, end and duration
- month: per-day summary of one month (first start, last end, worked, break) plus a total row

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export raw intervals to CSV
  workhours export --mode raw --output ./intervals.csv

  # Export raw intervals to Excel
  workhours export --mode raw --output ./intervals.xlsx

  # Export the March report
  workhours export --mode month --month 2024-03 --output ./2024-03.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		intervals := a.ledger.Snapshot()

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, intervals); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(intervals), format, exportOutput)
		case "month":
			month, err := resolveMonth(exportMonth, time.Now())
			if err != nil {
				return err
			}
			monthReport, err := report.BuildMonthReport(intervals, month)
			if err != nil {
				return err
			}
			if err := output.WriteMonthReport(exportOutput, format, monthReport); err != nil {
				return err
			}
			fmt.Printf("Export completed. Days: %d, Mode: month, Month: %s, Format: %s, File: %s\n",
				len(monthReport.Days), month.String(), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, month)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|month")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month YYYY-MM for --mode month (default: current month)")

	_ = exportCmd.MarkFlagRequired("output")
}
