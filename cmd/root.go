/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"workhours/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "workhours",
	Short: "Record work intervals and report daily and monthly worked time.",
	Long: `
**********************************************
*               WORK HOURS                   *
**********************************************

This CLI records work intervals (start/end timestamps) in a local store,
lists and edits them per day, reports per-month totals, exports them to CSV or Excel,
imports CSV/Excel timesheets and serves a local web UI for the same operations.

Supported stores:
- sqlite (default): single key-value table
- file: JSON document written atomically
- memory: nothing is persisted
`,
	Example: `
  # Create configuration file
  workhours config create

  # Record a session for today
  workhours add --start 09:00 --end 12:30

  # List the entries of a day with their total
  workhours list --date 2024-03-01

  # Monthly report
  workhours report --month 2024-03

  # Export the raw entries
  workhours export --mode raw --output ./intervals.csv

  # Start the local web UI
  workhours serve
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.workhours.yaml, then ./.workhours.yaml)")
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".workhours")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: reading config failed: %v\n", err)
		}
	}
}
