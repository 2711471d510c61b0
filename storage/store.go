package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrStorageIO marks failures of the underlying store (unreachable, unreadable, unwritable).
var ErrStorageIO = errors.New("storage i/o failure")

// PersistentStore is a string key-value store. Set replaces the value atomically.
type PersistentStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Closer is implemented by stores that hold open resources.
type Closer interface {
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open returns the store for the configured backend.
func Open(backend, path string) (PersistentStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLite(path)
	case BackendFile:
		return OpenFile(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}
}

// Close releases the store if it holds resources.
func Close(store PersistentStore) error {
	if closer, ok := store.(Closer); ok {
		return closer.Close()
	}
	return nil
}

func ioError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageIO, err)
}
