package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage workhours configuration file values.",
	Long: `Create, edit, display, and delete the workhours configuration file.

The configuration stores the store location and application-wide values:
- store.backend / store.path / store.key
- ledger.allow_zero_length
- server.port
- log.level / log.format
- rules[].name / mapper / file_template / day_start / break_minutes`,
	Example: `
  # Create default config in $HOME/.workhours.yaml
  workhours config create

  # Show active config and source file
  workhours config show

  # Open active config in editor (creates example if missing)
  workhours config edit

  # Add one import rule interactively
  workhours config rule add

  # Delete active config file
  workhours config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
