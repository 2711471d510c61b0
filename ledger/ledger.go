package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"workhours/internal/logging"
	"workhours/storage"
	"workhours/worklog"
)

// DefaultKey is the store key holding the serialized interval list.
const DefaultKey = "@work_hours"

type ChangeKind string

const (
	ChangeLoaded  ChangeKind = "loaded"
	ChangeAdded   ChangeKind = "added"
	ChangeEdited  ChangeKind = "edited"
	ChangeRemoved ChangeKind = "removed"
)

// Change describes one committed ledger update.
type Change struct {
	Kind     ChangeKind
	Affected []worklog.Interval
	Snapshot []worklog.Interval
}

type Option func(*Ledger)

func WithKey(key string) Option {
	return func(l *Ledger) {
		if key != "" {
			l.key = key
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithPolicy(policy worklog.Policy) Option {
	return func(l *Ledger) {
		l.policy = policy
	}
}

func WithIDGenerator(next func() string) Option {
	return func(l *Ledger) {
		if next != nil {
			l.newID = next
		}
	}
}

// Ledger owns the canonical interval list and is the only writer of its store key.
// Mutations are serialized; each one persists before the new snapshot becomes visible.
type Ledger struct {
	store  storage.PersistentStore
	key    string
	logger *slog.Logger
	policy worklog.Policy
	newID  func() string

	mu          sync.Mutex
	quarantined *CorruptionError

	snapMu   sync.RWMutex
	snapshot []worklog.Interval

	listenMu  sync.Mutex
	listeners map[int]func(Change)
	nextID    int
}

func New(store storage.PersistentStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		key:       DefaultKey,
		logger:    slog.Default(),
		policy:    worklog.DefaultPolicy(),
		newID:     uuid.NewString,
		snapshot:  []worklog.Interval{},
		listeners: map[int]func(Change){},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.WithComponent(l.logger, "ledger").With("key", l.key)
	return l
}

// Snapshot returns a copy of the current intervals in insertion order.
func (l *Ledger) Snapshot() []worklog.Interval {
	l.snapMu.RLock()
	defer l.snapMu.RUnlock()
	return worklog.Clone(l.snapshot)
}

// Quarantined returns the corruption found by the last Load, if it was not discarded.
func (l *Ledger) Quarantined() *CorruptionError {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quarantined
}

// Load replaces the snapshot with the stored list. A missing key yields an empty list.
// Undecodable data yields an empty snapshot together with a *CorruptionError, and
// mutations are refused until DiscardCorrupt is called or a later Load succeeds.
func (l *Ledger) Load(ctx context.Context) ([]worklog.Interval, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		l.logger.Error("load failed", "error", err)
		return nil, fmt.Errorf("load work hours: %w", err)
	}

	if !ok {
		l.quarantined = nil
		l.swap([]worklog.Interval{})
		l.logger.Debug("no stored work hours")
		l.notify(Change{Kind: ChangeLoaded, Snapshot: []worklog.Interval{}})
		return []worklog.Interval{}, nil
	}

	intervals, err := worklog.Decode(raw)
	if err != nil {
		corruption := &CorruptionError{Key: l.key, Raw: raw, Cause: err}
		l.quarantined = corruption
		l.swap([]worklog.Interval{})
		l.logger.Warn("stored work hours are corrupt, starting empty", "error", err, "bytes", len(raw))
		l.notify(Change{Kind: ChangeLoaded, Snapshot: []worklog.Interval{}})
		return []worklog.Interval{}, corruption
	}

	for i := range intervals {
		intervals[i] = worklog.Normalize(intervals[i])
		if intervals[i].ID == "" {
			intervals[i].ID = l.newID()
		}
	}

	l.quarantined = nil
	l.swap(intervals)
	l.logger.Debug("loaded work hours", "count", len(intervals))
	l.notify(Change{Kind: ChangeLoaded, Snapshot: worklog.Clone(intervals)})
	return worklog.Clone(intervals), nil
}

// DiscardCorrupt accepts the empty fallback after a corrupt Load. The next mutation
// overwrites the stored bytes. It returns the discarded error, or nil if none was pending.
func (l *Ledger) DiscardCorrupt() *CorruptionError {
	l.mu.Lock()
	defer l.mu.Unlock()
	discarded := l.quarantined
	l.quarantined = nil
	if discarded != nil {
		l.logger.Warn("discarding corrupt work hours", "bytes", len(discarded.Raw))
	}
	return discarded
}

// Add appends the interval without validating it. An empty ID is assigned.
func (l *Ledger) Add(ctx context.Context, interval worklog.Interval) ([]worklog.Interval, error) {
	return l.commit(ctx, ChangeAdded, func(current []worklog.Interval) ([]worklog.Interval, []worklog.Interval, error) {
		added := worklog.Normalize(interval)
		if added.ID == "" {
			added.ID = l.newID()
		}
		return append(current, added), []worklog.Interval{added}, nil
	})
}

// AddChecked validates against the ledger policy before adding.
func (l *Ledger) AddChecked(ctx context.Context, interval worklog.Interval) ([]worklog.Interval, error) {
	if err := l.policy.Validate(interval); err != nil {
		return nil, err
	}
	return l.Add(ctx, interval)
}

// AddAll validates every interval and appends them with a single write.
// Nothing is added when any interval is invalid.
func (l *Ledger) AddAll(ctx context.Context, intervals []worklog.Interval) ([]worklog.Interval, error) {
	for i, interval := range intervals {
		if err := l.policy.Validate(interval); err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
	}
	return l.commit(ctx, ChangeAdded, func(current []worklog.Interval) ([]worklog.Interval, []worklog.Interval, error) {
		if len(intervals) == 0 {
			return nil, nil, errUnchanged
		}
		added := make([]worklog.Interval, 0, len(intervals))
		for _, interval := range intervals {
			normalized := worklog.Normalize(interval)
			if normalized.ID == "" {
				normalized.ID = l.newID()
			}
			added = append(added, normalized)
		}
		return append(current, added...), added, nil
	})
}

// Edit replaces the first interval structurally equal to original. No match is a no-op.
func (l *Ledger) Edit(ctx context.Context, original, updated worklog.Interval) ([]worklog.Interval, error) {
	return l.commit(ctx, ChangeEdited, func(current []worklog.Interval) ([]worklog.Interval, []worklog.Interval, error) {
		for i, candidate := range current {
			if !candidate.Equal(original) {
				continue
			}
			replacement := worklog.Normalize(updated)
			replacement.ID = candidate.ID
			current[i] = replacement
			return current, []worklog.Interval{replacement}, nil
		}
		return nil, nil, errUnchanged
	})
}

func (l *Ledger) EditChecked(ctx context.Context, original, updated worklog.Interval) ([]worklog.Interval, error) {
	if err := l.policy.Validate(updated); err != nil {
		return nil, err
	}
	return l.Edit(ctx, original, updated)
}

// EditByID replaces the interval with the given ID, keeping the ID.
func (l *Ledger) EditByID(ctx context.Context, id string, updated worklog.Interval) ([]worklog.Interval, error) {
	return l.commit(ctx, ChangeEdited, func(current []worklog.Interval) ([]worklog.Interval, []worklog.Interval, error) {
		for i, candidate := range current {
			if candidate.ID != id {
				continue
			}
			replacement := worklog.Normalize(updated)
			replacement.ID = id
			current[i] = replacement
			return current, []worklog.Interval{replacement}, nil
		}
		return nil, nil, fmt.Errorf("edit %s: %w", id, ErrNotFound)
	})
}

func (l *Ledger) EditByIDChecked(ctx context.Context, id string, updated worklog.Interval) ([]worklog.Interval, error) {
	if err := l.policy.Validate(updated); err != nil {
		return nil, err
	}
	return l.EditByID(ctx, id, updated)
}

// Remove deletes every interval structurally equal to target, not just the first.
func (l *Ledger) Remove(ctx context.Context, target worklog.Interval) ([]worklog.Interval, error) {
	_, snapshot, err := l.RemoveMatches(ctx, target)
	return snapshot, err
}

// RemoveMatches is Remove that also reports how many intervals the commit removed.
func (l *Ledger) RemoveMatches(ctx context.Context, target worklog.Interval) (int, []worklog.Interval, error) {
	snapshot, removed, err := l.commitAffected(ctx, ChangeRemoved, func(current []worklog.Interval) ([]worklog.Interval, []worklog.Interval, error) {
		kept := make([]worklog.Interval, 0, len(current))
		removed := make([]worklog.Interval, 0, 1)
		for _, candidate := range current {
			if candidate.Equal(target) {
				removed = append(removed, candidate)
				continue
			}
			kept = append(kept, candidate)
		}
		if len(removed) == 0 {
			return nil, nil, errUnchanged
		}
		return kept, removed, nil
	})
	return len(removed), snapshot, err
}

func (l *Ledger) RemoveByID(ctx context.Context, id string) ([]worklog.Interval, error) {
	return l.commit(ctx, ChangeRemoved, func(current []worklog.Interval) ([]worklog.Interval, []worklog.Interval, error) {
		for i, candidate := range current {
			if candidate.ID == id {
				kept := append(current[:i:i], current[i+1:]...)
				return kept, []worklog.Interval{candidate}, nil
			}
		}
		return nil, nil, fmt.Errorf("remove %s: %w", id, ErrNotFound)
	})
}

// Find returns the interval with the given ID.
func (l *Ledger) Find(id string) (worklog.Interval, bool) {
	l.snapMu.RLock()
	defer l.snapMu.RUnlock()
	for _, candidate := range l.snapshot {
		if candidate.ID == id {
			return candidate, true
		}
	}
	return worklog.Interval{}, false
}

var errUnchanged = errors.New("unchanged")

type mutation func(current []worklog.Interval) (next, affected []worklog.Interval, err error)

func (l *Ledger) commit(ctx context.Context, kind ChangeKind, apply mutation) ([]worklog.Interval, error) {
	snapshot, _, err := l.commitAffected(ctx, kind, apply)
	return snapshot, err
}

// commitAffected applies one mutation under the write lock and returns the new
// snapshot with the intervals the mutation touched.
func (l *Ledger) commitAffected(ctx context.Context, kind ChangeKind, apply mutation) ([]worklog.Interval, []worklog.Interval, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.quarantined != nil {
		return nil, nil, ErrQuarantined
	}

	next, affected, err := apply(l.Snapshot())
	if errors.Is(err, errUnchanged) {
		return l.Snapshot(), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	raw, err := worklog.Encode(next)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := l.store.Set(ctx, l.key, raw); err != nil {
		l.logger.Error("persist failed, keeping previous snapshot", "change", string(kind), "error", err)
		return nil, nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	l.swap(next)
	l.logger.Debug("committed", "change", string(kind), "affected", len(affected), "count", len(next))
	l.notify(Change{Kind: kind, Affected: affected, Snapshot: worklog.Clone(next)})
	return worklog.Clone(next), affected, nil
}

func (l *Ledger) swap(next []worklog.Interval) {
	l.snapMu.Lock()
	l.snapshot = next
	l.snapMu.Unlock()
}
