package backup

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/cucharita-app/cucharita/internal/models"
)

func exportableState() models.StoreState {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	state := models.DefaultState(now)
	weeks := 32
	state.BabyProfile = models.BabyProfile{BirthDate: "2025-09-15", GestationWeeks: &weeks, DueDate: "2025-11-10"}
	state.Milestones = models.MilestoneChecklist{Seated: true, NoExtrusion: true, InterestInFood: true, HandToMouth: true}
	state.Allergens.Statuses[models.AllergenEgg] = models.StatusNoReaction
	state.Diary.Entries = []models.DiaryEntry{
		{ID: "e1", Date: "2026-02-28", FoodID: "platano", Quantity: models.QuantityTasted, Texture: models.TextureMashed, Reaction: models.ReactionLiked, CreatedAt: now, UpdatedAt: now},
	}
	return state
}

func TestImportOfExportIsLossless(t *testing.T) {
	want := exportableState()

	data, err := Export(want)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	got, err := Import(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestExportIsVersionedJSON(t *testing.T) {
	data, err := Export(exportableState())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not a JSON object: %v", err)
	}
	for _, key := range []string{"version", "createdAt", "updatedAt", "diary", "allergens", "milestones", "babyProfile"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("export missing %q section", key)
		}
	}
}

func TestImport_RejectsMissingSections(t *testing.T) {
	full, err := Export(exportableState())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		drop    string
		mention string
	}{
		{"no milestones", "milestones", "milestones"},
		{"no diary", "diary", "diary"},
		{"no allergens", "allergens", "allergens"},
		{"no profile", "babyProfile", "babyProfile"},
		{"no version", "version", "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc map[string]json.RawMessage
			if err := json.Unmarshal(full, &doc); err != nil {
				t.Fatal(err)
			}
			delete(doc, tt.drop)
			data, err := json.Marshal(doc)
			if err != nil {
				t.Fatal(err)
			}

			_, err = Import(data)

			var structure *StructureError
			if !errors.As(err, &structure) {
				t.Fatalf("expected StructureError, got %v", err)
			}
			if !strings.Contains(structure.Reason, tt.mention) {
				t.Errorf("reason %q does not name %q", structure.Reason, tt.mention)
			}
		})
	}
}

func TestImport_RejectsMissingEntriesList(t *testing.T) {
	full, err := Export(exportableState())
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(full, &doc); err != nil {
		t.Fatal(err)
	}
	doc["diary"] = json.RawMessage(`{}`)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Import(data)

	var structure *StructureError
	if !errors.As(err, &structure) {
		t.Fatalf("expected StructureError, got %v", err)
	}
}

func TestImport_RejectsUnsupportedVersion(t *testing.T) {
	full, err := Export(exportableState())
	if err != nil {
		t.Fatal(err)
	}
	data := []byte(strings.Replace(string(full), `"version": 1`, `"version": 99`, 1))

	_, err = Import(data)

	var structure *StructureError
	if !errors.As(err, &structure) {
		t.Fatalf("expected StructureError, got %v", err)
	}
	if !strings.Contains(structure.Reason, "version") {
		t.Errorf("reason %q does not name the version", structure.Reason)
	}
}

func TestImport_RejectsMalformedJSON(t *testing.T) {
	_, err := Import([]byte("{oops"))

	var structure *StructureError
	if !errors.As(err, &structure) {
		t.Fatalf("expected StructureError, got %v", err)
	}
}

func TestImport_AcceptsLegacyEntryArray(t *testing.T) {
	legacy := `[{"id":"old-1","date":"2025-12-01","foodId":"platano","quantity":"tasted","texture":"mashed","reaction":"liked"}]`

	got, err := Import([]byte(legacy))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if got.Version != models.CurrentVersion {
		t.Errorf("version = %d, want %d", got.Version, models.CurrentVersion)
	}
	if len(got.Diary.Entries) != 1 || got.Diary.Entries[0].ID != "old-1" {
		t.Errorf("entries = %+v, want single old-1", got.Diary.Entries)
	}
	if got.Allergens.Statuses == nil {
		t.Errorf("wrapped state has a nil allergen map")
	}
	if got.Milestones.Complete() {
		t.Errorf("wrapping a legacy array must not invent milestone progress")
	}
}

func TestImport_RejectsMalformedLegacyArray(t *testing.T) {
	_, err := Import([]byte(`[{"id": 42}]`))

	var structure *StructureError
	if !errors.As(err, &structure) {
		t.Fatalf("expected StructureError, got %v", err)
	}
}
