package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"workhours/config"
)

func TestAppendRuleToConfigYAML_AppendsRule(t *testing.T) {
	t.Parallel()

	input := []byte(`store:
  backend: sqlite
  path: "~/.workhours/workhours.db"
rules:
  - name: "csv"
    mapper: generic
    file_template: "sessions-*.csv"
`)

	newRule := config.Rule{
		Name:         "sheet",
		Mapper:       "hours",
		FileTemplate: "timesheet-*.xlsx",
		DayStart:     "07:30",
		BreakMinutes: 45,
	}

	updated, err := appendRuleToConfigYAML(input, newRule)
	if err != nil {
		t.Fatalf("append rule failed: %v", err)
	}

	cfg, err := config.ValidateYAMLContent(updated)
	if err != nil {
		t.Fatalf("updated yaml should validate: %v", err)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}
	last := cfg.Rules[1]
	if last.Name != "sheet" || last.Mapper != "hours" || last.FileTemplate != "timesheet-*.xlsx" || last.DayStart != "07:30" || last.BreakMinutes != 45 {
		t.Fatalf("unexpected last rule: %+v", last)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Fatalf("expected other sections to survive, got %+v", cfg.Store)
	}
}

func TestAppendRuleToConfigYAML_DuplicateName(t *testing.T) {
	t.Parallel()

	input := []byte("rules:\n  - name: \"CSV\"\n    mapper: generic\n    file_template: \"*.csv\"\n")
	_, err := appendRuleToConfigYAML(input, config.Rule{Name: "csv", Mapper: "generic", FileTemplate: "x-*.csv"})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestAppendRuleToConfigYAML_RejectsInvalidRule(t *testing.T) {
	t.Parallel()

	_, err := appendRuleToConfigYAML(nil, config.Rule{Name: "sheet", Mapper: "hours", FileTemplate: "*.xlsx"})
	if err == nil {
		t.Fatalf("expected hours rule without day_start to be rejected")
	}
}

func TestPromptRule_HoursMapper(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("2\nsheet\ntimesheet-*.xlsx\n25:00\n07:45\n\n"))
	rule, err := promptRule(reader, &out)
	if err != nil {
		t.Fatalf("prompt rule: %v", err)
	}
	if rule.Mapper != "hours" || rule.Name != "sheet" || rule.DayStart != "07:45" || rule.BreakMinutes != 30 {
		t.Fatalf("unexpected rule: %+v", rule)
	}
	if !strings.Contains(out.String(), "Invalid time") {
		t.Fatalf("expected invalid time retry in output:\n%s", out.String())
	}
}

func TestPromptRule_GenericSkipsHoursSettings(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("1\ncsv\n*.csv\n"))
	rule, err := promptRule(reader, &out)
	if err != nil {
		t.Fatalf("prompt rule: %v", err)
	}
	if rule.Mapper != "generic" || rule.DayStart != "" || rule.BreakMinutes != 0 {
		t.Fatalf("unexpected rule: %+v", rule)
	}
}
