package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteStore_GetMissingKey(t *testing.T) {
	t.Parallel()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "workhours_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	_, ok, err := store.Get(context.Background(), "@work_hours")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key")
	}
}

func TestSQLiteStore_SetReplacesValue(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "workhours_test.db")
	store, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ctx := context.Background()
	if err := store.Set(ctx, "k", "first"); err != nil {
		t.Fatalf("set first: %v", err)
	}
	if err := store.Set(ctx, "k", "second"); err != nil {
		t.Fatalf("set second: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if value != "second" {
		t.Fatalf("expected second, got %q", value)
	}
}

func TestSQLiteStore_ClosedStoreReportsIOError(t *testing.T) {
	t.Parallel()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "workhours_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	_ = store.Close()

	if err := store.Set(context.Background(), "k", "v"); !errors.Is(err, ErrStorageIO) {
		t.Fatalf("expected ErrStorageIO, got %v", err)
	}
}

func TestOpenSQLite_RejectsInMemoryPath(t *testing.T) {
	t.Parallel()

	if _, err := OpenSQLite(":memory:"); err == nil {
		t.Fatalf("expected error for in-memory path")
	}
}

func TestFileStore_RoundTripAndAtomicWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "workhours.json")
	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}

	ctx := context.Background()
	if _, ok, err := store.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected missing key on fresh store, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "k", `[{"start":"x"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away")
	}

	other, err := OpenFile(path)
	if err != nil {
		t.Fatalf("reopen file store: %v", err)
	}
	value, ok, err := other.Get(ctx, "k")
	if err != nil || !ok || value != `[{"start":"x"}]` {
		t.Fatalf("unexpected value=%q ok=%v err=%v", value, ok, err)
	}
}

func TestFileStore_UnreadableContainerIsIOError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "workhours.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	if _, _, err := store.Get(context.Background(), "k"); !errors.Is(err, ErrStorageIO) {
		t.Fatalf("expected ErrStorageIO, got %v", err)
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		backend string
		path    string
		wantErr bool
	}{
		{backend: "sqlite", path: filepath.Join(dir, "a.db")},
		{backend: "file", path: filepath.Join(dir, "a.json")},
		{backend: "memory"},
		{backend: "redis", wantErr: true},
	}

	for _, tt := range tests {
		store, err := Open(tt.backend, tt.path)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for backend %q", tt.backend)
			}
			continue
		}
		if err != nil {
			t.Fatalf("open %q: %v", tt.backend, err)
		}
		if err := store.Set(context.Background(), "k", "v"); err != nil {
			t.Fatalf("set on %q: %v", tt.backend, err)
		}
		if err := Close(store); err != nil {
			t.Fatalf("close %q: %v", tt.backend, err)
		}
	}
}

func TestStores_CanceledContextIsIOError(t *testing.T) {
	t.Parallel()

	fileStore, err := OpenFile(filepath.Join(t.TempDir(), "workhours.json"))
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, store := range map[string]PersistentStore{
		"memory": NewMemoryStore(),
		"file":   fileStore,
	} {
		if _, _, err := store.Get(ctx, "k"); !errors.Is(err, ErrStorageIO) || !errors.Is(err, context.Canceled) {
			t.Fatalf("%s get: expected canceled ErrStorageIO, got %v", name, err)
		}
		if err := store.Set(ctx, "k", "v"); !errors.Is(err, ErrStorageIO) || !errors.Is(err, context.Canceled) {
			t.Fatalf("%s set: expected canceled ErrStorageIO, got %v", name, err)
		}
	}
}
