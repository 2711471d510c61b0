package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"workhours/worklog"
)

var (
	removeStart string
	removeEnd   string
)

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove recorded intervals",
	Long: `Remove one interval by id, or every interval with exactly the given bounds.

With --start/--end all structurally equal intervals are removed, not just the first.`,
	Example: `
  # Remove by id
  workhours remove 1b4e28ba-2fa1-11d2-883f-0016d3cca427

  # Remove all entries with these bounds
  workhours remove --start 2024-03-01T09:00:00 --end 2024-03-01T12:00:00
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		byBounds := strings.TrimSpace(removeStart) != "" || strings.TrimSpace(removeEnd) != ""
		if len(args) == 1 && byBounds {
			return fmt.Errorf("use either an id or --start/--end, not both")
		}
		if len(args) == 0 && !byBounds {
			return fmt.Errorf("an id or --start and --end are required")
		}

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			id := strings.TrimSpace(args[0])
			if _, err := a.ledger.RemoveByID(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", id)
			return nil
		}

		target, err := boundsFromTimestamps(removeStart, removeEnd)
		if err != nil {
			return err
		}
		removed, _, err := a.ledger.RemoveMatches(ctx, target)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d interval(s)\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().StringVar(&removeStart, "start", "", "Start timestamp YYYY-MM-DDTHH:MM:SS")
	removeCmd.Flags().StringVar(&removeEnd, "end", "", "End timestamp YYYY-MM-DDTHH:MM:SS")
}

func boundsFromTimestamps(start, end string) (worklog.Interval, error) {
	startAt, err := worklog.ParseTimestamp(start)
	if err != nil {
		return worklog.Interval{}, fmt.Errorf("invalid --start: %w", err)
	}
	endAt, err := worklog.ParseTimestamp(end)
	if err != nil {
		return worklog.Interval{}, fmt.Errorf("invalid --end: %w", err)
	}
	return worklog.Interval{Start: startAt, End: endAt}, nil
}
