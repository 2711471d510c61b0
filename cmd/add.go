package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"workhours/internal/timeutil"
	"workhours/worklog"
)

var (
	addStart string
	addEnd   string
	addDate  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record one work interval",
	Long: `Record one work interval from HH:MM clock times on a day (default: today).

The interval is rejected when a time is malformed or the start lies after the end.`,
	Example: `
  # Record a session for today
  workhours add --start 09:00 --end 12:30

  # Record a session on an earlier day
  workhours add --date 2024-03-01 --start 13:00 --end 17:15
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		interval, err := intervalFromClocks(addDate, addStart, addEnd, time.Now())
		if err != nil {
			return err
		}

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		snapshot, err := a.ledger.AddChecked(ctx, interval)
		if err != nil {
			return err
		}
		added := snapshot[len(snapshot)-1]
		fmt.Printf("Added %s: %s - %s\n", added.ID, worklog.FormatTimestamp(added.Start), worklog.FormatTimestamp(added.End))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addStart, "start", "", "Start time HH:MM")
	addCmd.Flags().StringVar(&addEnd, "end", "", "End time HH:MM")
	addCmd.Flags().StringVar(&addDate, "date", "", "Day YYYY-MM-DD (default: today)")

	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")
}

// resolveDay parses an optional YYYY-MM-DD flag, falling back to fallback's day.
func resolveDay(raw string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return timeutil.StartOfDay(fallback), nil
	}
	return timeutil.ParseDate(raw)
}

// intervalFromClocks combines HH:MM start and end on the given day.
// Malformed input is reported as a *worklog.ValidationError.
func intervalFromClocks(rawDay, start, end string, fallback time.Time) (worklog.Interval, error) {
	day, err := resolveDay(rawDay, fallback)
	if err != nil {
		return worklog.Interval{}, &worklog.ValidationError{Field: "date", Reason: err.Error()}
	}
	startAt, err := timeutil.CombineDateClock(day, start)
	if err != nil {
		return worklog.Interval{}, &worklog.ValidationError{Field: "start", Reason: err.Error()}
	}
	endAt, err := timeutil.CombineDateClock(day, end)
	if err != nil {
		return worklog.Interval{}, &worklog.ValidationError{Field: "end", Reason: err.Error()}
	}
	return worklog.Interval{Start: startAt, End: endAt}, nil
}
