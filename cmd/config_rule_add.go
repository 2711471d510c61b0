package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"workhours/config"
	"workhours/importer"
	"workhours/internal/timeutil"
)

var configRuleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Interactively add one import rule.",
	Long: `Choose a mapper, a file template and the mapper settings interactively,
then store a new rules entry in config.`,
	Example: `
  # Add one rule interactively
  workhours config rule add

  # Add a rule to a custom config file
  workhours --configFile ./custom-workhours.yaml config rule add
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		if _, err := ensureConfigFileWithTemplate(configPath); err != nil {
			return err
		}

		newRule, err := promptRule(bufio.NewReader(configPromptInput), configPromptOutput)
		if err != nil {
			return err
		}

		current, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		updated, err := appendRuleToConfigYAML(current, newRule)
		if err != nil {
			return err
		}
		if err := os.WriteFile(configPath, updated, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Println("Rule added successfully.")
		fmt.Printf("Config:   %s\n", configPath)
		fmt.Printf("Name:     %s\n", newRule.Name)
		fmt.Printf("Mapper:   %s\n", newRule.Mapper)
		fmt.Printf("Template: %s\n", newRule.FileTemplate)
		if newRule.DayStart != "" {
			fmt.Printf("Start:    %s\n", newRule.DayStart)
			fmt.Printf("Break:    %d min\n", newRule.BreakMinutes)
		}
		return nil
	},
}

func init() {
	configRuleCmd.AddCommand(configRuleAddCmd)
}

func promptRule(reader *bufio.Reader, out io.Writer) (config.Rule, error) {
	mapperNames := importer.SupportedMapperNames()
	selected, err := promptSelectIndex(reader, out, "Select mapper:", mapperNames)
	if err != nil {
		return config.Rule{}, err
	}

	rule := config.Rule{Mapper: mapperNames[selected]}
	if rule.Name, err = promptRequiredString(reader, out, "Rule name"); err != nil {
		return config.Rule{}, err
	}
	if rule.FileTemplate, err = promptRequiredString(reader, out, "File template (example: timesheet-*.xlsx)"); err != nil {
		return config.Rule{}, err
	}
	if rule.Mapper != "hours" {
		return rule, nil
	}

	for {
		rule.DayStart, err = promptOptionalString(reader, out, "Day start HH:MM", "08:00")
		if err != nil {
			return config.Rule{}, err
		}
		if _, parseErr := timeutil.ParseClockMinutes(rule.DayStart); parseErr == nil {
			break
		}
		fmt.Fprintln(out, "Invalid time. Please use HH:MM.")
	}
	for {
		raw, err := promptOptionalString(reader, out, "Break minutes", "30")
		if err != nil {
			return config.Rule{}, err
		}
		minutes, parseErr := strconv.Atoi(raw)
		if parseErr == nil && minutes >= 0 {
			rule.BreakMinutes = minutes
			return rule, nil
		}
		fmt.Fprintln(out, "Invalid number. Please enter minutes >= 0.")
	}
}

func appendRuleToConfigYAML(content []byte, rule config.Rule) ([]byte, error) {
	if strings.TrimSpace(rule.Name) == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if strings.TrimSpace(rule.Mapper) == "" {
		return nil, fmt.Errorf("mapper is required")
	}
	if strings.TrimSpace(rule.FileTemplate) == "" {
		return nil, fmt.Errorf("file template is required")
	}

	doc := map[string]any{}
	if strings.TrimSpace(string(content)) != "" {
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	rulesList, err := ensureSliceAny(doc, "rules")
	if err != nil {
		return nil, err
	}
	for _, existing := range rulesList {
		ruleMap, ok := existing.(map[string]any)
		if !ok {
			continue
		}
		existingName, _ := ruleMap["name"].(string)
		if strings.EqualFold(strings.TrimSpace(existingName), strings.TrimSpace(rule.Name)) {
			return nil, fmt.Errorf("rule with name %q already exists", rule.Name)
		}
	}

	entry := map[string]any{
		"name":          rule.Name,
		"mapper":        strings.ToLower(strings.TrimSpace(rule.Mapper)),
		"file_template": rule.FileTemplate,
	}
	if rule.DayStart != "" {
		entry["day_start"] = rule.DayStart
	}
	if rule.BreakMinutes > 0 {
		entry["break_minutes"] = rule.BreakMinutes
	}
	doc["rules"] = append(rulesList, entry)

	updated, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal updated config yaml: %w", err)
	}
	if _, err := config.ValidateYAMLContent(updated); err != nil {
		return nil, fmt.Errorf("updated config is invalid: %w", err)
	}
	return updated, nil
}

func ensureSliceAny(doc map[string]any, key string) ([]any, error) {
	raw, exists := doc[key]
	if !exists || raw == nil {
		result := []any{}
		doc[key] = result
		return result, nil
	}
	result, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("config key %q must be a list", key)
	}
	return result, nil
}
