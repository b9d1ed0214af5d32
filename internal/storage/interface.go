package storage

import (
	"fmt"

	"github.com/cucharita-app/cucharita/internal/models"
)

// Persister is the persistence boundary under the versioned state store.
// Implementations persist the whole aggregate atomically: a failed Save
// must leave the previously persisted state intact.
type Persister interface {
	// Load returns the persisted aggregate, or (nil, nil) when nothing
	// has been persisted yet. A structurally invalid document yields a
	// *CorruptError after the raw bytes have been preserved for recovery.
	Load() (*models.StoreState, error)

	// LoadLegacy returns diary entries persisted by the pre-versioning
	// format (a bare array of entries), if any. The legacy artifact is
	// left untouched.
	LoadLegacy() ([]models.DiaryEntry, bool, error)

	// Save persists the full aggregate, replacing the previous one.
	Save(models.StoreState) error

	// Reset erases the persisted aggregate and any legacy artifact.
	Reset() error

	// Close releases underlying resources.
	Close() error

	// Path identifies the persisted location, for display and backups.
	Path() string
}

// CorruptError reports a persisted document that exists but fails
// structural validation. Preserved names the sidecar the original bytes
// were copied to before being superseded, empty if preservation failed.
type CorruptError struct {
	Path      string
	Preserved string
	Err       error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("persisted state at %s is invalid: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }
