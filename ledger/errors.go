package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageCorruption matches any *CorruptionError.
	ErrStorageCorruption = errors.New("stored work hours are corrupt")
	// ErrPersistence marks a mutation whose durable write failed; memory was not changed.
	ErrPersistence = errors.New("persist work hours")
	ErrNotFound    = errors.New("interval not found")
	// ErrQuarantined is returned by mutations while corrupt stored data has not been discarded.
	ErrQuarantined = errors.New("ledger holds unrecovered corrupt data")
)

// CorruptionError carries the raw stored value that failed to decode.
type CorruptionError struct {
	Key   string
	Raw   string
	Cause error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("stored work hours under %q are corrupt: %v", e.Key, e.Cause)
}

func (e *CorruptionError) Unwrap() error {
	return e.Cause
}

func (e *CorruptionError) Is(target error) bool {
	return target == ErrStorageCorruption
}
