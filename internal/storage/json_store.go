package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cucharita-app/cucharita/internal/models"
)

// LegacyFileName is the sibling file the pre-versioning app persisted its
// bare entry array to.
const LegacyFileName = "entries.json"

// JSONStore persists the aggregate as a single pretty-printed JSON
// document, written atomically via a temp file and rename.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) legacyPath() string {
	return filepath.Join(filepath.Dir(s.path), LegacyFileName)
}

func (s *JSONStore) Load() (*models.StoreState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	// A bare array is the legacy format, handled by LoadLegacy.
	if isJSONArray(data) {
		return nil, nil
	}

	state := &models.StoreState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, s.corrupt(data, fmt.Errorf("failed to parse state file: %w", err))
	}
	if state.Version != models.CurrentVersion {
		return nil, s.corrupt(data, fmt.Errorf("unsupported state version %d (want %d)", state.Version, models.CurrentVersion))
	}
	state.Normalize()
	return state, nil
}

// corrupt preserves the invalid document to a timestamped sidecar so a
// schema mismatch never silently destroys data, then reports the failure.
func (s *JSONStore) corrupt(data []byte, cause error) error {
	preserved := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
	if err := os.WriteFile(preserved, data, 0600); err != nil {
		preserved = ""
	}
	return &CorruptError{Path: s.path, Preserved: preserved, Err: cause}
}

func (s *JSONStore) LoadLegacy() ([]models.DiaryEntry, bool, error) {
	for _, candidate := range []string{s.legacyPath(), s.path} {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, false, fmt.Errorf("failed to read legacy file: %w", err)
		}
		if !isJSONArray(data) {
			continue
		}
		var entries []models.DiaryEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, false, s.corrupt(data, fmt.Errorf("failed to parse legacy entries: %w", err))
		}
		// The legacy document in the state file's own slot would be
		// overwritten by the migrated aggregate; keep a copy first.
		if candidate == s.path {
			_ = os.WriteFile(s.path+".legacy", data, 0600)
		}
		return entries, true, nil
	}
	return nil, false, nil
}

func (s *JSONStore) Save(state models.StoreState) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	// Atomic replace: the previous document stays intact unless the
	// rename succeeds.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (s *JSONStore) Reset() error {
	for _, path := range []string{s.path, s.legacyPath(), s.path + ".legacy"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
