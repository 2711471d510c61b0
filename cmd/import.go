package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"workhours/importer"
	"workhours/worklog"
)

var (
	importInputs          []string
	importFormat          string
	importMapper          string
	importDayStart        string
	importBreakMinutes    int
	importAllowDuplicates bool
	importDryRun          bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel timesheets as work intervals",
	Long: `Read source files, map each row to an interval and add all of them with a single write.

Mapper "generic" reads start/end columns (or date + start/end times).
Mapper "hours" reads a date and a worked-hours column and lays the day out from a start time,
inserting one break.

Rules from the config file pick mapper and settings per file name (file_template);
the flags below override the matching rule.
Intervals identical to an existing entry are skipped unless --allow-duplicates is set.`,
	Example: `
  # Import a generic CSV file
  workhours import -i ./sessions.csv

  # Import an hours sheet starting each day at 08:00
  workhours import -i ./timesheet.xlsx --mapper hours --day-start 08:00

  # Preview without writing
  workhours import -i ./sessions.csv --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := importer.Run(importInputs, a.cfg.Rules, importer.RunOptions{
			Format:       importFormat,
			Mapper:       importMapper,
			DayStart:     importDayStart,
			BreakMinutes: importBreakMinutes,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Import read. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			result.RowsMapped,
			result.RowsSkipped,
		)
		if importDryRun {
			for _, interval := range result.Intervals {
				fmt.Printf("  %s - %s\n", worklog.FormatTimestamp(interval.Start), worklog.FormatTimestamp(interval.End))
			}
			return nil
		}

		applied, err := importer.Apply(ctx, a.ledger, result.Intervals, importAllowDuplicates)
		if err != nil {
			return err
		}
		fmt.Printf("Import completed. Added: %d, Duplicates skipped: %d, Overlaps: %d\n",
			applied.Added,
			applied.Duplicates,
			len(applied.Overlaps),
		)
		for _, overlap := range applied.Overlaps {
			fmt.Printf("  overlap: %s - %s with existing %s - %s\n",
				worklog.FormatTimestamp(overlap.Candidate.Start),
				worklog.FormatTimestamp(overlap.Candidate.End),
				worklog.FormatTimestamp(overlap.Existing.Start),
				worklog.FormatTimestamp(overlap.Existing.End),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|tsv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVarP(&importMapper, "mapper", "m", "", "Mapper: generic|hours (overrides matching config rule)")
	importCmd.Flags().StringVar(&importDayStart, "day-start", "", "Day start HH:MM for mapper hours")
	importCmd.Flags().IntVar(&importBreakMinutes, "break-minutes", 0, "Break length in minutes for mapper hours (0: rule or default)")
	importCmd.Flags().BoolVar(&importAllowDuplicates, "allow-duplicates", false, "Add intervals even when an identical one exists")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Print mapped intervals without writing")

	_ = importCmd.MarkFlagRequired("input")
}
