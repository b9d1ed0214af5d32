// Package store owns the single persisted aggregate: profile, milestone
// checklist, allergen registry and diary. All operations go through one
// Store instance held by the composition root; reads never fail and
// writes are expressed as partial merges applied before one atomic
// persist.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/cucharita-app/cucharita/internal/logger"
	"github.com/cucharita-app/cucharita/internal/models"
	"github.com/cucharita-app/cucharita/internal/storage"
)

// StorageError reports a persistence-layer failure. The operation is not
// retried and the process keeps running: the in-memory aggregate already
// reflects the attempted change, only the persisted copy is stale.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is the versioned state store.
type Store struct {
	persister storage.Persister
	now       func() time.Time

	state  *models.StoreState
	loaded bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source. Tests supply fixed instants.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(p storage.Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the current aggregate, running the migration path on
// first use. It never fails: missing state is synthesized from defaults
// and persisted, invalid state is superseded by defaults after the
// persister has preserved the original bytes.
func (s *Store) Read() models.StoreState {
	s.load()
	return s.state.Clone()
}

func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true

	state, err := s.persister.Load()
	persist := true
	if err != nil {
		var corrupt *storage.CorruptError
		if errors.As(err, &corrupt) {
			logger.Warn("persisted state invalid, falling back to defaults",
				"path", corrupt.Path, "preserved", corrupt.Preserved, "error", corrupt.Err)
		} else {
			// A transient read failure says nothing about what is on disk.
			// Serve defaults from memory only; persisting them here would
			// overwrite a state file that may be perfectly intact.
			logger.Warn("failed to load persisted state, operating in memory", "error", err)
			persist = false
		}
	}
	if state != nil {
		s.state = state
		return
	}

	now := s.now()
	defaults := models.DefaultState(now)

	// Pre-versioning installs persisted a bare array of diary entries;
	// wrap it into a defaulted aggregate and persist under the current
	// version. The legacy artifact itself stays in place, superseded.
	if entries, ok, legacyErr := s.persister.LoadLegacy(); legacyErr == nil && ok {
		defaults.Diary.Entries = entries
		logger.Info("migrated legacy diary entries", "count", len(entries))
	}

	s.state = &defaults
	if !persist {
		return
	}
	if err := s.persister.Save(defaults); err != nil {
		logger.Warn("failed to persist default state, operating in memory", "error", err)
	}
}

// Write deep-merges the patch into the aggregate, stamps updatedAt,
// persists atomically and returns the resulting state. On persist
// failure the returned state still carries the merged value and the
// error is a *StorageError the caller surfaces as a warning.
func (s *Store) Write(patch models.StatePatch) (models.StoreState, error) {
	s.load()
	patch.Apply(s.state)
	s.state.UpdatedAt = s.now()
	if err := s.persister.Save(*s.state); err != nil {
		return s.state.Clone(), &StorageError{Op: "write", Err: err}
	}
	return s.state.Clone(), nil
}

// Replace swaps in a whole new aggregate (backup import). Unlike Write
// it does not merge.
func (s *Store) Replace(state models.StoreState) (models.StoreState, error) {
	s.load()
	state.Normalize()
	state.UpdatedAt = s.now()
	if err := s.persister.Save(state); err != nil {
		return s.state.Clone(), &StorageError{Op: "replace", Err: err}
	}
	*s.state = state
	return s.state.Clone(), nil
}

// Reset erases all persisted state, current and legacy. The next Read
// resynthesizes defaults.
func (s *Store) Reset() error {
	if err := s.persister.Reset(); err != nil {
		return &StorageError{Op: "reset", Err: err}
	}
	s.state = nil
	s.loaded = false
	return nil
}

// Path exposes the persisted location for backups and diagnostics.
func (s *Store) Path() string { return s.persister.Path() }

// Close releases the persister.
func (s *Store) Close() error { return s.persister.Close() }
