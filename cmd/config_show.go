package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"workhours/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.
Values come from defaults when no config file is loaded.`,
	Example: `
  # Show active configuration
  workhours config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("store.backend: %s\n", cfg.Store.Backend)
		fmt.Printf("store.path: %s\n", cfg.Store.Path)
		fmt.Printf("store.key: %s\n", cfg.Store.Key)
		fmt.Printf("ledger.allow_zero_length: %t\n", cfg.Ledger.AllowZeroLength)
		fmt.Printf("server.port: %d\n", cfg.Server.Port)
		fmt.Printf("log.level: %s\n", cfg.Log.Level)
		fmt.Printf("log.format: %s\n", cfg.Log.Format)
		fmt.Printf("rules: %d\n", len(cfg.Rules))
		for i, rule := range cfg.Rules {
			fmt.Printf("rules[%d].name: %s\n", i, rule.Name)
			fmt.Printf("rules[%d].mapper: %s\n", i, rule.Mapper)
			fmt.Printf("rules[%d].file_template: %s\n", i, rule.FileTemplate)
			if rule.DayStart != "" {
				fmt.Printf("rules[%d].day_start: %s\n", i, rule.DayStart)
			}
			if rule.BreakMinutes > 0 {
				fmt.Printf("rules[%d].break_minutes: %d\n", i, rule.BreakMinutes)
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
