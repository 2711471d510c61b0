package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"workhours/config"
	"workhours/internal/classify"
	"workhours/ledger"
	"workhours/worklog"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsMapped     int
	RowsSkipped    int
	Intervals      []worklog.Interval
}

// RunOptions override what a matching rule would select.
type RunOptions struct {
	Format       string
	Mapper       string
	DayStart     string
	BreakMinutes int
}

// Run reads and maps every file. Nothing is written to the ledger.
func Run(paths []string, rules []config.Rule, options RunOptions) (*Result, error) {
	result := &Result{Intervals: make([]worklog.Interval, 0, 256)}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, options.Format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		rule := resolveRuleForFile(path, rules, options)
		mapper, err := MapperByName(rule.Mapper)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			interval, ok, mapErr := mapper.Map(record, rule)
			if mapErr != nil {
				return nil, fmt.Errorf("%s: %w", filepath.Base(path), mapErr)
			}
			if !ok || interval == nil {
				result.RowsSkipped++
				continue
			}
			result.RowsMapped++
			result.Intervals = append(result.Intervals, *interval)
		}
	}

	return result, nil
}

type ApplyResult struct {
	Added      int
	Duplicates int
	Overlaps   []classify.OverlapInfo
}

// Apply adds mapped intervals to the ledger in one write. Intervals structurally
// equal to an existing entry are skipped unless allowDuplicates is set.
func Apply(ctx context.Context, l *ledger.Ledger, intervals []worklog.Interval, allowDuplicates bool) (*ApplyResult, error) {
	existing := l.Snapshot()

	toAdd, overlaps, duplicates := classify.ClassifyCandidates(intervals, existing)
	if allowDuplicates {
		toAdd = intervals
		duplicates = 0
	}

	if _, err := l.AddAll(ctx, toAdd); err != nil {
		return nil, fmt.Errorf("add imported intervals: %w", err)
	}

	return &ApplyResult{
		Added:      len(toAdd),
		Duplicates: duplicates,
		Overlaps:   overlaps,
	}, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "tsv", "txt":
		return "tsv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func resolveRuleForFile(path string, rules []config.Rule, options RunOptions) config.Rule {
	rule := MatchRuleByTemplate(path, rules)
	if strings.TrimSpace(options.Mapper) != "" {
		rule.Mapper = options.Mapper
	}
	rule.DayStart = firstNonEmpty(options.DayStart, rule.DayStart)
	if options.BreakMinutes > 0 {
		rule.BreakMinutes = options.BreakMinutes
	}
	return rule
}

func MatchRuleByTemplate(path string, rules []config.Rule) config.Rule {
	baseName := filepath.Base(path)
	for _, rule := range rules {
		template := strings.TrimSpace(rule.FileTemplate)
		if template == "" {
			continue
		}
		matchesBase, err := filepath.Match(template, baseName)
		if err == nil && matchesBase {
			return rule
		}
		matchesFull, err := filepath.Match(template, path)
		if err == nil && matchesFull {
			return rule
		}
	}
	return config.Rule{}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
