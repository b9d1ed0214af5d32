package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cucharita-app/cucharita/internal/models"
)

func testState() models.StoreState {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	state := models.DefaultState(now)
	weeks := 32
	state.BabyProfile = models.BabyProfile{
		BirthDate:      "2025-09-15",
		GestationWeeks: &weeks,
		DueDate:        "2025-11-10",
	}
	state.Milestones = models.MilestoneChecklist{Seated: true, NoExtrusion: true, InterestInFood: true, HandToMouth: true}
	state.Allergens.Statuses[models.AllergenEgg] = models.StatusNoReaction
	state.Diary.Entries = []models.DiaryEntry{
		{ID: "e1", Date: "2026-02-28", FoodID: "platano", Quantity: models.QuantityTasted, Texture: models.TextureMashed, Reaction: models.ReactionLiked, CreatedAt: now, UpdatedAt: now},
		{ID: "e2", Date: "2026-03-01", FoodID: "pera", Quantity: models.QuantityAteWell, Texture: models.TextureSticks, Reaction: models.ReactionNeutral, Notes: "segunda vez", CreatedAt: now, UpdatedAt: now},
	}
	return state
}

func TestJSONStore_RoundTrip(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "cucharita.json"))
	want := testState()

	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil {
		t.Fatalf("Load returned nil state")
	}

	if !reflect.DeepEqual(*got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", *got, want)
	}
}

func TestJSONStore_LoadMissingFileReturnsNil(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "cucharita.json"))

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil state for missing file, got %+v", got)
	}
}

func TestJSONStore_CorruptFilePreservedToSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cucharita.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	store := NewJSONStore(path)

	_, err := store.Load()

	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptError, got %v", err)
	}
	if corrupt.Preserved == "" {
		t.Fatalf("corrupt bytes were not preserved")
	}
	preserved, readErr := os.ReadFile(corrupt.Preserved)
	if readErr != nil {
		t.Fatalf("preserved sidecar unreadable: %v", readErr)
	}
	if string(preserved) != "{not json" {
		t.Errorf("sidecar content = %q, want original bytes", preserved)
	}
}

func TestJSONStore_UnsupportedVersionIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cucharita.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0600); err != nil {
		t.Fatal(err)
	}
	store := NewJSONStore(path)

	_, err := store.Load()

	var corrupt *CorruptError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptError for version mismatch, got %v", err)
	}
}

func TestJSONStore_LegacySiblingFile(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"old-1","date":"2025-12-01","foodId":"platano","quantity":"tasted","texture":"mashed","reaction":"liked"}]`
	if err := os.WriteFile(filepath.Join(dir, LegacyFileName), []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}
	store := NewJSONStore(filepath.Join(dir, "cucharita.json"))

	entries, ok, err := store.LoadLegacy()
	if err != nil {
		t.Fatalf("LoadLegacy failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected legacy entries to be found")
	}
	if len(entries) != 1 || entries[0].ID != "old-1" {
		t.Errorf("entries = %+v, want single old-1", entries)
	}
}

func TestJSONStore_LegacyArrayInStateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cucharita.json")
	legacy := `[{"id":"old-1","date":"2025-12-01","foodId":"platano","quantity":"tasted","texture":"mashed","reaction":"liked"}]`
	if err := os.WriteFile(path, []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}
	store := NewJSONStore(path)

	// The versioned Load does not claim a bare array.
	state, err := store.Load()
	if err != nil || state != nil {
		t.Fatalf("Load on legacy array = (%+v, %v), want (nil, nil)", state, err)
	}

	entries, ok, err := store.LoadLegacy()
	if err != nil || !ok {
		t.Fatalf("LoadLegacy = (_, %v, %v), want found", ok, err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v, want one", entries)
	}

	// The original document is kept as a .legacy copy before the migrated
	// aggregate overwrites the state path.
	preserved, readErr := os.ReadFile(path + ".legacy")
	if readErr != nil {
		t.Fatalf("legacy copy missing: %v", readErr)
	}
	if string(preserved) != legacy {
		t.Errorf("legacy copy content = %q, want original array", preserved)
	}
}

func TestJSONStore_LoadLegacyAbsent(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "cucharita.json"))

	_, ok, err := store.LoadLegacy()
	if err != nil {
		t.Fatalf("LoadLegacy failed: %v", err)
	}
	if ok {
		t.Errorf("expected no legacy data")
	}
}

func TestJSONStore_ResetRemovesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cucharita.json")
	store := NewJSONStore(path)
	if err := store.Save(testState()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, LegacyFileName), []byte("[]"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	for _, p := range []string{path, filepath.Join(dir, LegacyFileName)} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists after reset", p)
		}
	}
}

func TestJSONStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cucharita.json")
	store := NewJSONStore(path)

	if err := store.Save(testState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("state file missing after save: %v", err)
	}
}
