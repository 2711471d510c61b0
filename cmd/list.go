package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"workhours/internal/timeutil"
	"workhours/report"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the intervals of one day with the day total",
	Example: `
  # Today's entries
  workhours list

  # Entries of a given day
  workhours list --date 2024-03-01
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(listDate, time.Now())
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := report.BuildDayView(a.ledger.Snapshot(), day)
		if err != nil {
			return err
		}
		printDayView(os.Stdout, view)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDate, "date", "", "Day YYYY-MM-DD (default: today)")
}

func printDayView(out io.Writer, view report.DayView) {
	fmt.Fprintf(out, "Day %s\n", view.Date.Format(timeutil.DateLayout))
	if len(view.Entries) == 0 {
		fmt.Fprintln(out, "No entries.")
	}
	for _, entry := range view.Entries {
		line := fmt.Sprintf("  %s  %s - %s  %s", entry.ID, entry.Start, entry.End, entry.Duration)
		if entry.Flag != "" {
			line += "  [" + entry.Flag + "]"
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "Total: %s\n", view.Total)
}
