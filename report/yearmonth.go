package report

import (
	"fmt"
	"strings"
	"time"

	"workhours/internal/timeutil"
)

// YearMonth identifies a calendar month in local time.
type YearMonth struct {
	Year  int
	Month time.Month
}

func MonthOf(value time.Time) YearMonth {
	local := value.In(time.Local)
	return YearMonth{Year: local.Year(), Month: local.Month()}
}

func ParseYearMonth(raw string) (YearMonth, error) {
	parsed, err := time.ParseInLocation(timeutil.MonthLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", raw)
	}
	return MonthOf(parsed), nil
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Start returns midnight on the first day of the month.
func (m YearMonth) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
}

// End returns the last calendar day of the month at midnight.
func (m YearMonth) End() time.Time {
	return m.Start().AddDate(0, 1, -1)
}

func (m YearMonth) Before(other YearMonth) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m YearMonth) Contains(value time.Time) bool {
	return MonthOf(value) == m
}

func (m YearMonth) Prev() YearMonth {
	return MonthOf(m.Start().AddDate(0, -1, 0))
}

func (m YearMonth) Next() YearMonth {
	return MonthOf(m.Start().AddDate(0, 1, 0))
}
