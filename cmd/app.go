package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"workhours/config"
	"workhours/internal/logging"
	"workhours/ledger"
	"workhours/storage"
	"workhours/worklog"
)

// app bundles the store and ledger one command works with.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     storage.PersistentStore
	ledger    *ledger.Ledger
	storePath string
}

// openApp loads config, opens the configured store and loads the ledger.
// Corrupt stored data is backed up next to the store and discarded.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	storePath, err := resolveStorePath(cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Store.Backend, storePath)
	if err != nil {
		return nil, err
	}

	l := ledger.New(store,
		ledger.WithKey(cfg.Store.Key),
		ledger.WithLogger(logger),
		ledger.WithPolicy(worklog.Policy{AllowZeroLength: cfg.Ledger.AllowZeroLength}),
	)
	a := &app{cfg: cfg, logger: logger, store: store, ledger: l, storePath: storePath}

	if _, err := l.Load(ctx); err != nil {
		var corrupt *ledger.CorruptionError
		if !errors.As(err, &corrupt) {
			_ = a.Close()
			return nil, err
		}
		if err := a.recoverCorruption(os.Stderr, time.Now()); err != nil {
			_ = a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *app) Close() error {
	return storage.Close(a.store)
}

// recoverCorruption saves the unreadable raw value and lets the ledger start empty.
func (a *app) recoverCorruption(out io.Writer, now time.Time) error {
	corrupt := a.ledger.Quarantined()
	if corrupt == nil {
		return nil
	}

	backup := ""
	if a.storePath != "" {
		existing, err := findCorruptBackup(a.storePath, corrupt.Raw)
		if err != nil {
			return err
		}
		backup = existing
		if backup == "" {
			backup = fmt.Sprintf("%s.corrupt-%s.json", a.storePath, now.Format("20060102-150405"))
			if err := os.WriteFile(backup, []byte(corrupt.Raw), 0o600); err != nil {
				return fmt.Errorf("back up corrupt work hours: %w", err)
			}
		}
	}

	a.ledger.DiscardCorrupt()
	if backup != "" {
		fmt.Fprintf(out, "Warning: stored work hours were unreadable (%v). Raw data saved to %s; starting empty.\n", corrupt.Cause, backup)
	} else {
		fmt.Fprintf(out, "Warning: stored work hours were unreadable (%v); starting empty.\n", corrupt.Cause)
	}
	return nil
}

// findCorruptBackup returns an earlier backup of storePath holding exactly raw.
// The corrupt value stays in the store until the next write, so every run
// would otherwise save it again.
func findCorruptBackup(storePath, raw string) (string, error) {
	matches, err := filepath.Glob(storePath + ".corrupt-*.json")
	if err != nil {
		return "", fmt.Errorf("list corrupt backups: %w", err)
	}
	for _, match := range matches {
		content, err := os.ReadFile(match)
		if err != nil {
			continue
		}
		if string(content) == raw {
			return match, nil
		}
	}
	return "", nil
}

func resolveStorePath(cfg *config.Config) (string, error) {
	if cfg.Store.Backend == storage.BackendMemory {
		return "", nil
	}
	path, err := config.ExpandPath(cfg.Store.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create store directory: %w", err)
	}
	return path, nil
}
