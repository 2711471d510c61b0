package cmd

import "github.com/spf13/cobra"

var configRuleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage import rules in config.",
	Long: `Manage import rules stored under config key rules.

Rules select the mapper and its settings for imported files matching a file template.`,
}

func init() {
	configCmd.AddCommand(configRuleCmd)
}
