package importer

import (
	"fmt"
	"math"
	"time"

	"workhours/config"
	"workhours/internal/timeutil"
	"workhours/worklog"
)

// defaultBreakThresholdMins applies when a day carries no day total.
const defaultBreakThresholdMins = 6 * 60

// HoursMapper lays out rows that only carry a date and an amount of hours
// back to back, starting at the day's start time. When the rule sets
// BreakMinutes, one break is inserted near the middle of the day's work.
type HoursMapper struct {
	days map[string]*hoursDayState
}

type hoursDayState struct {
	cursor        time.Time
	expectedMins  int
	consumedMins  int
	pauseInserted bool
}

func (m *HoursMapper) Name() string {
	return "hours"
}

func (m *HoursMapper) Map(record Record, rule config.Rule) (*worklog.Interval, bool, error) {
	if record.Blank() {
		return nil, false, nil
	}
	if m.days == nil {
		m.days = make(map[string]*hoursDayState)
	}

	dateValue := record.Get("date", "datum", "day")
	if dateValue == "" {
		return nil, false, fmt.Errorf("row %d: missing date", record.RowNumber)
	}

	state, err := m.ensureDayState(dateValue, record, rule)
	if err != nil {
		return nil, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}

	minutes, err := parseHoursToMinutes(record.Get("hours", "stunden", "duration"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: %w", record.RowNumber, err)
	}
	if minutes <= 0 {
		return nil, false, nil
	}

	if shouldInsertPause(state, minutes, rule.BreakMinutes) {
		state.cursor = state.cursor.Add(time.Duration(rule.BreakMinutes) * time.Minute)
		state.pauseInserted = true
	}

	start := state.cursor
	end := start.Add(time.Duration(minutes) * time.Minute)
	state.cursor = end
	state.consumedMins += minutes

	return &worklog.Interval{Start: start, End: end}, true, nil
}

func (m *HoursMapper) ensureDayState(dateValue string, record Record, rule config.Rule) (*hoursDayState, error) {
	day, err := parseDate(dateValue)
	if err != nil {
		return nil, err
	}
	key := day.Format(timeutil.DateLayout)

	state, ok := m.days[key]
	if !ok {
		state = &hoursDayState{}
		startClock := record.Get("start", "von", "daystart")
		if startClock == "" {
			startClock = rule.DayStart
		}
		if startClock == "" {
			return nil, fmt.Errorf("no start time for %s (set day_start on the rule or a start column)", key)
		}
		state.cursor, err = parseDateAndClock(dateValue, startClock)
		if err != nil {
			return nil, fmt.Errorf("parse day start: %w", err)
		}
		m.days[key] = state
	}

	if rawDayTotal := record.Get("daytotal", "tagessumme", "daysum"); rawDayTotal != "" {
		expected, err := parseHoursToMinutes(rawDayTotal)
		if err != nil {
			return nil, fmt.Errorf("parse day total: %w", err)
		}
		if expected > 0 {
			state.expectedMins = expected
		}
	}

	return state, nil
}

// shouldInsertPause places the break at the row boundary closest to the middle of
// the expected day total, or before crossing six hours when no total is known.
func shouldInsertPause(state *hoursDayState, currentMins, breakMins int) bool {
	if state == nil || state.pauseInserted || breakMins <= 0 || state.consumedMins <= 0 {
		return false
	}

	consumed := state.consumedMins
	nextBoundary := consumed + currentMins

	if state.expectedMins <= 0 {
		return nextBoundary > defaultBreakThresholdMins
	}

	half := float64(state.expectedMins) / 2.0
	if float64(consumed) >= half {
		return true
	}
	if float64(nextBoundary) >= half {
		distNow := half - float64(consumed)
		distNext := float64(nextBoundary) - half
		return distNow <= distNext || math.Abs(distNow-distNext) < 1e-7
	}
	return false
}
