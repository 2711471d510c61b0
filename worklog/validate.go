package worklog

import (
	"fmt"
	"time"
)

// Policy controls which intervals the checked ledger entry points accept.
type Policy struct {
	AllowZeroLength bool
}

func DefaultPolicy() Policy {
	return Policy{AllowZeroLength: true}
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (p Policy) Validate(interval Interval) error {
	if interval.Start.IsZero() {
		return &ValidationError{Field: "start", Reason: "is required"}
	}
	if interval.End.IsZero() {
		return &ValidationError{Field: "end", Reason: "is required"}
	}
	start := interval.Start.Truncate(time.Second)
	end := interval.End.Truncate(time.Second)
	if end.Before(start) {
		return &ValidationError{Field: "end", Reason: "must not be before start"}
	}
	if end.Equal(start) && !p.AllowZeroLength {
		return &ValidationError{Field: "end", Reason: "must be after start"}
	}
	return nil
}
