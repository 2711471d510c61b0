package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"workhours/ledger"
	"workhours/worklog"
)

var (
	editStart string
	editEnd   string
	editDate  string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the times of one recorded interval",
	Long: `Replace start and end of the interval with the given id.

Without --date the interval stays on its original day; only the clock times change.`,
	Example: `
  # Move the start of an entry
  workhours edit 1b4e28ba-2fa1-11d2-883f-0016d3cca427 --start 09:30 --end 17:00
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(args[0])

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		existing, found := a.ledger.Find(id)
		if !found {
			return fmt.Errorf("edit %s: %w", id, ledger.ErrNotFound)
		}
		updated, err := intervalFromClocks(editDate, editStart, editEnd, existing.Start)
		if err != nil {
			return err
		}

		if _, err := a.ledger.EditByIDChecked(ctx, id, updated); err != nil {
			return err
		}
		fmt.Printf("Edited %s: %s - %s\n", id, worklog.FormatTimestamp(updated.Start), worklog.FormatTimestamp(updated.End))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVar(&editStart, "start", "", "New start time HH:MM")
	editCmd.Flags().StringVar(&editEnd, "end", "", "New end time HH:MM")
	editCmd.Flags().StringVar(&editDate, "date", "", "New day YYYY-MM-DD (default: the interval's day)")

	_ = editCmd.MarkFlagRequired("start")
	_ = editCmd.MarkFlagRequired("end")
}
