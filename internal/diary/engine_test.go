package diary

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/cucharita-app/cucharita/internal/catalog"
	"github.com/cucharita-app/cucharita/internal/models"
	"github.com/cucharita-app/cucharita/internal/storage"
	"github.com/cucharita-app/cucharita/internal/store"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeCatalog serves a fixed index from memory; detail fetches can be
// forced to fail to model an offline cache miss.
type fakeCatalog struct {
	summaries []catalog.Summary
	details   map[string]catalog.Detail
	detailErr error
}

func (f *fakeCatalog) Summaries() ([]catalog.Summary, error) {
	return f.summaries, nil
}

func (f *fakeCatalog) Detail(_ context.Context, id string) (catalog.Detail, error) {
	if f.detailErr != nil {
		return catalog.Detail{}, f.detailErr
	}
	d, ok := f.details[id]
	if !ok {
		return catalog.Detail{}, &catalog.FetchError{ID: id, Err: fmt.Errorf("not in catalog index")}
	}
	return d, nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		summaries: []catalog.Summary{
			{ID: "platano", Name: "Plátano", MinAgeMonths: 6},
			{ID: "huevo", Name: "Huevo", MinAgeMonths: 6, IsAllergen: true},
			{ID: "miel", Name: "Miel", MinAgeMonths: 12},
		},
		details: map[string]catalog.Detail{
			"platano": {ID: "platano", MinAgeMonths: 6},
			"huevo":   {ID: "huevo", MinAgeMonths: 6, Allergens: []models.Allergen{models.AllergenEgg}},
			"miel":    {ID: "miel", MinAgeMonths: 12},
		},
	}
}

// newReadyEngine returns an engine over a store whose profile yields a
// safe age of 6 months and whose milestones are all met.
func newReadyEngine(t *testing.T, cat catalog.Provider) (*Engine, *store.Store) {
	t.Helper()
	st := store.New(
		storage.NewJSONStore(filepath.Join(t.TempDir(), "cucharita.json")),
		store.WithClock(func() time.Time { return fixedNow }),
	)

	birth := "2025-09-01" // 6 months before fixedNow
	met := true
	if _, err := st.Write(models.StatePatch{
		BabyProfile: &models.ProfilePatch{BirthDate: &birth},
		Milestones:  &models.MilestonePatch{Seated: &met, NoExtrusion: &met, InterestInFood: &met, HandToMouth: &met},
	}); err != nil {
		t.Fatal(err)
	}

	return New(st, cat, WithClock(func() time.Time { return fixedNow })), st
}

func validEntry(foodID string) models.DiaryEntry {
	return models.DiaryEntry{
		Date:     "2026-03-01",
		FoodID:   foodID,
		Quantity: models.QuantityTasted,
		Texture:  models.TextureMashed,
		Reaction: models.ReactionLiked,
	}
}

func TestSave_BlockedWhileMilestonesIncomplete(t *testing.T) {
	st := store.New(
		storage.NewJSONStore(filepath.Join(t.TempDir(), "cucharita.json")),
		store.WithClock(func() time.Time { return fixedNow }),
	)
	birth := "2025-09-01"
	met := true
	if _, err := st.Write(models.StatePatch{
		BabyProfile: &models.ProfilePatch{BirthDate: &birth},
		Milestones:  &models.MilestonePatch{Seated: &met, NoExtrusion: &met},
	}); err != nil {
		t.Fatal(err)
	}
	engine := New(st, testCatalog(), WithClock(func() time.Time { return fixedNow }))

	// The gate fires before food resolution: even a nonexistent food
	// reports the milestone failure.
	_, _, err := engine.Save(context.Background(), validEntry("no-such-food"))

	var incomplete *MilestonesIncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected MilestonesIncompleteError, got %v", err)
	}
	want := []string{models.MilestoneInterestInFood, models.MilestoneHandToMouth}
	if len(incomplete.Missing) != 2 || incomplete.Missing[0] != want[0] || incomplete.Missing[1] != want[1] {
		t.Errorf("Missing = %v, want %v", incomplete.Missing, want)
	}
	if got := st.Read().Diary.Entries; len(got) != 0 {
		t.Errorf("blocked save still wrote %d entries", len(got))
	}
}

func TestSave_RequiresKnownSafeAge(t *testing.T) {
	st := store.New(
		storage.NewJSONStore(filepath.Join(t.TempDir(), "cucharita.json")),
		store.WithClock(func() time.Time { return fixedNow }),
	)
	met := true
	if _, err := st.Write(models.StatePatch{
		Milestones: &models.MilestonePatch{Seated: &met, NoExtrusion: &met, InterestInFood: &met, HandToMouth: &met},
	}); err != nil {
		t.Fatal(err)
	}
	engine := New(st, testCatalog(), WithClock(func() time.Time { return fixedNow }))

	_, _, err := engine.Save(context.Background(), validEntry("platano"))

	if !errors.Is(err, ErrProfileIncomplete) {
		t.Fatalf("expected ErrProfileIncomplete, got %v", err)
	}
}

func TestSave_RejectsUnresolvedFood(t *testing.T) {
	engine, _ := newReadyEngine(t, testCatalog())

	_, _, err := engine.Save(context.Background(), validEntry("no-such-food"))

	var ineligible *FoodIneligibleError
	if !errors.As(err, &ineligible) {
		t.Fatalf("expected FoodIneligibleError, got %v", err)
	}
	if ineligible.MinAgeMonths != -1 {
		t.Errorf("MinAgeMonths = %d, want -1 for an unresolved food", ineligible.MinAgeMonths)
	}
}

func TestSave_RejectsFoodAboveSafeAge(t *testing.T) {
	engine, _ := newReadyEngine(t, testCatalog())

	_, _, err := engine.Save(context.Background(), validEntry("miel"))

	var ineligible *FoodIneligibleError
	if !errors.As(err, &ineligible) {
		t.Fatalf("expected FoodIneligibleError, got %v", err)
	}
	if ineligible.MinAgeMonths != 12 || ineligible.SafeAgeMonths != 6 {
		t.Errorf("error carries %d/%d, want 12/6", ineligible.MinAgeMonths, ineligible.SafeAgeMonths)
	}
}

func TestSave_RejectsMalformedPayload(t *testing.T) {
	engine, _ := newReadyEngine(t, testCatalog())

	tests := []struct {
		name   string
		mutate func(*models.DiaryEntry)
		field  string
	}{
		{"bad date", func(e *models.DiaryEntry) { e.Date = "01/03/2026" }, "date"},
		{"bad quantity", func(e *models.DiaryEntry) { e.Quantity = "heaps" }, "quantity"},
		{"bad texture", func(e *models.DiaryEntry) { e.Texture = "crunchy" }, "texture"},
		{"bad reaction", func(e *models.DiaryEntry) { e.Reaction = "meh" }, "reaction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry("platano")
			tt.mutate(&entry)

			_, _, err := engine.Save(context.Background(), entry)

			var invalid *ValidationError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if invalid.Field != tt.field {
				t.Errorf("Field = %q, want %q", invalid.Field, tt.field)
			}
		})
	}
}

func TestSave_AssignsIDAndTimestamps(t *testing.T) {
	engine, st := newReadyEngine(t, testCatalog())

	saved, notice, err := engine.Save(context.Background(), validEntry("platano"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if saved.ID == "" {
		t.Errorf("saved entry has no generated id")
	}
	if !saved.CreatedAt.Equal(fixedNow) || !saved.UpdatedAt.Equal(fixedNow) {
		t.Errorf("timestamps = %v / %v, want %v", saved.CreatedAt, saved.UpdatedAt, fixedNow)
	}
	if notice != nil {
		t.Errorf("non-allergen food produced a notice: %+v", notice)
	}
	if got := st.Read().Diary.Entries; len(got) != 1 || got[0].ID != saved.ID {
		t.Errorf("entry not persisted: %+v", got)
	}
}

func TestSave_UpsertPreservesCreatedAtAndPosition(t *testing.T) {
	engine, st := newReadyEngine(t, testCatalog())

	first, _, err := engine.Save(context.Background(), validEntry("platano"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := engine.Save(context.Background(), validEntry("huevo")); err != nil {
		t.Fatal(err)
	}

	edited := first
	edited.Quantity = models.QuantityAteWell
	edited.Notes = "repetimos"
	saved, _, err := engine.Save(context.Background(), edited)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	if saved.ID != first.ID {
		t.Errorf("edit changed the id: %s -> %s", first.ID, saved.ID)
	}
	if !saved.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("edit changed createdAt: %v -> %v", first.CreatedAt, saved.CreatedAt)
	}

	entries := st.Read().Diary.Entries
	if len(entries) != 2 {
		t.Fatalf("edit duplicated the entry: %d entries", len(entries))
	}
	if entries[0].ID != first.ID {
		t.Errorf("edit moved the entry: first stored id = %s", entries[0].ID)
	}
	if entries[0].Quantity != models.QuantityAteWell || entries[0].Notes != "repetimos" {
		t.Errorf("edit not applied: %+v", entries[0])
	}
}

func TestSave_AllergenFoodYieldsNotice(t *testing.T) {
	engine, _ := newReadyEngine(t, testCatalog())

	_, notice, err := engine.Save(context.Background(), validEntry("huevo"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if notice == nil {
		t.Fatalf("allergen-flagged food produced no notice")
	}
	if notice.FoodID != "huevo" {
		t.Errorf("notice food = %q, want huevo", notice.FoodID)
	}
	if len(notice.Allergens) != 1 || notice.Allergens[0] != models.AllergenEgg {
		t.Errorf("notice allergens = %v, want [egg]", notice.Allergens)
	}
	if got := notice.Statuses[models.AllergenEgg]; got != models.StatusNotIntroduced {
		t.Errorf("notice status = %q, want default not-introduced", got)
	}
}

func TestSave_NoticeReflectsRecordedStatus(t *testing.T) {
	engine, st := newReadyEngine(t, testCatalog())
	if _, err := st.Write(models.StatePatch{Allergens: &models.AllergenPatch{Statuses: map[models.Allergen]models.AllergenStatus{
		models.AllergenEgg: models.StatusMildReaction,
	}}}); err != nil {
		t.Fatal(err)
	}

	_, notice, err := engine.Save(context.Background(), validEntry("huevo"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if got := notice.Statuses[models.AllergenEgg]; got != models.StatusMildReaction {
		t.Errorf("notice status = %q, want mild-reaction", got)
	}
	// The notice is advisory only: the registry itself is unchanged.
	if got := st.Read().Allergens.Statuses[models.AllergenEgg]; got != models.StatusMildReaction {
		t.Errorf("save mutated the allergen registry: %q", got)
	}
}

func TestSave_DetailFetchFailureDoesNotFailTheSave(t *testing.T) {
	cat := testCatalog()
	cat.detailErr = &catalog.FetchError{ID: "huevo", Err: fmt.Errorf("offline")}
	engine, st := newReadyEngine(t, cat)

	saved, notice, err := engine.Save(context.Background(), validEntry("huevo"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if notice == nil {
		t.Fatalf("expected a notice even without detail data")
	}
	if len(notice.Allergens) != 0 {
		t.Errorf("notice names allergens it could not resolve: %v", notice.Allergens)
	}
	if got := st.Read().Diary.Entries; len(got) != 1 || got[0].ID != saved.ID {
		t.Errorf("entry not persisted: %+v", got)
	}
}

func TestDelete_Unconditional(t *testing.T) {
	engine, st := newReadyEngine(t, testCatalog())
	saved, _, err := engine.Save(context.Background(), validEntry("platano"))
	if err != nil {
		t.Fatal(err)
	}

	// Regressing the milestones must not block a delete.
	unmet := false
	if _, err := st.Write(models.StatePatch{Milestones: &models.MilestonePatch{Seated: &unmet}}); err != nil {
		t.Fatal(err)
	}

	existed, err := engine.Delete(saved.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !existed {
		t.Errorf("Delete reported the entry missing")
	}
	if got := st.Read().Diary.Entries; len(got) != 0 {
		t.Errorf("entry still present after delete: %+v", got)
	}
}

func TestDelete_MissingEntryReportsFalse(t *testing.T) {
	engine, _ := newReadyEngine(t, testCatalog())

	existed, err := engine.Delete("nope")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if existed {
		t.Errorf("Delete invented an entry")
	}
}

func TestDay_ReturnsEntriesForTargetDate(t *testing.T) {
	engine, _ := newReadyEngine(t, testCatalog())

	today := validEntry("platano")
	if _, _, err := engine.Save(context.Background(), today); err != nil {
		t.Fatal(err)
	}
	yesterday := validEntry("huevo")
	yesterday.Date = "2026-02-28"
	if _, _, err := engine.Save(context.Background(), yesterday); err != nil {
		t.Fatal(err)
	}

	got := engine.Day("2026-03-01")
	if len(got) != 1 || got[0].FoodID != "platano" {
		t.Errorf("Day = %+v, want only the 2026-03-01 entry", got)
	}
	if got := engine.Day("2020-01-01"); len(got) != 0 {
		t.Errorf("Day for an empty date = %+v, want none", got)
	}
}
