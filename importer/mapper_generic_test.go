package importer

import (
	"testing"
	"time"

	"workhours/config"
)

func newRecord(row int, values map[string]string) Record {
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		normalized[normalizeHeader(key)] = value
	}
	return Record{RowNumber: row, Values: normalized}
}

func TestGenericMapper_FullTimestamps(t *testing.T) {
	t.Parallel()

	mapper := &GenericMapper{}
	record := newRecord(2, map[string]string{
		"start": "2024-03-01T09:00:00",
		"end":   "2024-03-01T17:00:00",
	})

	interval, ok, err := mapper.Map(record, config.Rule{})
	if err != nil {
		t.Fatalf("map record: %v", err)
	}
	if !ok {
		t.Fatalf("expected mapped interval")
	}
	if got := interval.End.Sub(interval.Start); got != 8*time.Hour {
		t.Fatalf("expected 8h, got %v", got)
	}
}

func TestGenericMapper_DateAndClockColumns(t *testing.T) {
	t.Parallel()

	mapper := &GenericMapper{}
	record := newRecord(2, map[string]string{
		"Datum": "05.03.2026",
		"Von":   "08:15",
		"Bis":   "12:45",
	})

	interval, ok, err := mapper.Map(record, config.Rule{})
	if err != nil || !ok {
		t.Fatalf("map record: ok=%v err=%v", ok, err)
	}
	want := time.Date(2026, 3, 5, 8, 15, 0, 0, time.Local)
	if !interval.Start.Equal(want) {
		t.Fatalf("unexpected start: want %s, got %s", want, interval.Start)
	}
	if interval.End.Hour() != 12 || interval.End.Minute() != 45 {
		t.Fatalf("unexpected end: %s", interval.End)
	}
}

func TestGenericMapper_DurationReplacesMissingEnd(t *testing.T) {
	t.Parallel()

	mapper := &GenericMapper{}
	record := newRecord(2, map[string]string{
		"start":    "2026-03-05 09:00",
		"end":      "",
		"duration": "7.5",
	})

	interval, ok, err := mapper.Map(record, config.Rule{})
	if err != nil || !ok {
		t.Fatalf("map record: ok=%v err=%v", ok, err)
	}
	if got := interval.End.Sub(interval.Start); got != 8*time.Minute {
		t.Fatalf("expected rounded 8 minutes, got %v", got)
	}
}

func TestGenericMapper_RejectsInvertedRow(t *testing.T) {
	t.Parallel()

	mapper := &GenericMapper{}
	record := newRecord(7, map[string]string{
		"start": "2024-03-01 17:00",
		"end":   "2024-03-01 09:00",
	})

	if _, _, err := mapper.Map(record, config.Rule{}); err == nil {
		t.Fatalf("expected error for inverted row")
	}
}

func TestGenericMapper_SkipsBlankRows(t *testing.T) {
	t.Parallel()

	mapper := &GenericMapper{}
	_, ok, err := mapper.Map(newRecord(3, map[string]string{"start": " ", "end": ""}), config.Rule{})
	if err != nil || ok {
		t.Fatalf("expected blank row to be skipped, ok=%v err=%v", ok, err)
	}
}
