package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"workhours/internal/timeutil"
	"workhours/report"
)

var (
	reportMonth  string
	reportMonths bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the per-day summary and total of one month",
	Long: `Show one month of recorded intervals grouped per day.

Each day lists first start, last end, worked time and break time.
With --months the months that hold entries are listed instead.`,
	Example: `
  # Current month
  workhours report

  # A given month
  workhours report --month 2024-03

  # Months with entries
  workhours report --months
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := resolveMonth(reportMonth, time.Now())
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot := a.ledger.Snapshot()
		if reportMonths {
			for _, m := range report.DistinctMonths(snapshot) {
				fmt.Println(m.String())
			}
			return nil
		}

		monthReport, err := report.BuildMonthReport(snapshot, month)
		if err != nil {
			return err
		}
		printMonthReport(os.Stdout, monthReport)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Month YYYY-MM (default: current month)")
	reportCmd.Flags().BoolVar(&reportMonths, "months", false, "List the months that hold entries")
}

func resolveMonth(raw string, now time.Time) (report.YearMonth, error) {
	if strings.TrimSpace(raw) == "" {
		return report.MonthOf(now), nil
	}
	return report.ParseYearMonth(raw)
}

func printMonthReport(out io.Writer, monthReport report.MonthReport) {
	fmt.Fprintf(out, "Month %s\n", monthReport.Month.String())
	if len(monthReport.Days) == 0 {
		fmt.Fprintln(out, "No entries.")
	}
	for _, day := range monthReport.Days {
		fmt.Fprintf(out, "  %s  %s - %s  worked %s  break %s  (%d entries)\n",
			day.Date.Format(timeutil.DateLayout),
			day.FirstStart.Format(timeutil.ClockLayout),
			day.LastEnd.Format(timeutil.ClockLayout),
			day.Worked(),
			day.Break(),
			day.Count,
		)
	}
	fmt.Fprintf(out, "Total: %s\n", monthReport.Total)
}
