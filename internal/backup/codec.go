// Package backup serializes the whole store state to an interchange
// document and back, and manages timestamped backup files of it.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/cucharita-app/cucharita/internal/models"
)

// StructureError rejects an import document that fails shape validation.
// The current state is left untouched.
type StructureError struct {
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("backup document invalid: %s", e.Reason)
}

// document mirrors the state aggregate with every required section as a
// pointer, so missing or null sections are detectable before acceptance.
type document struct {
	Version     *int                       `json:"version" validate:"required"`
	Diary       *diarySection              `json:"diary" validate:"required"`
	Allergens   *allergenSection           `json:"allergens" validate:"required"`
	Milestones  *models.MilestoneChecklist `json:"milestones" validate:"required"`
	BabyProfile *models.BabyProfile        `json:"babyProfile" validate:"required"`
	CreatedAt   json.RawMessage            `json:"createdAt"`
	UpdatedAt   json.RawMessage            `json:"updatedAt"`
}

type diarySection struct {
	Entries *[]models.DiaryEntry `json:"entries" validate:"required"`
}

type allergenSection struct {
	Statuses *map[models.Allergen]models.AllergenStatus `json:"statuses" validate:"required"`
}

var docValidate = validator.New()

// Export returns the full current state as a pretty-printed interchange
// document tagged with its schema version.
func Export(state models.StoreState) ([]byte, error) {
	return json.MarshalIndent(state, "", "  ")
}

// Import validates and decodes an interchange document. The legacy format
// (a bare array of diary entries) is accepted and wrapped into a
// defaulted aggregate. On success the returned state is meant to replace
// the current one wholesale; invoking that replacement behind a caller
// confirmation is the presentation layer's job.
func Import(data []byte) (models.StoreState, error) {
	if isJSONArray(data) {
		var entries []models.DiaryEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return models.StoreState{}, &StructureError{Reason: fmt.Sprintf("legacy entry array is malformed: %v", err)}
		}
		state := models.StoreState{Version: models.CurrentVersion}
		state.Normalize()
		state.Diary.Entries = entries
		return state, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.StoreState{}, &StructureError{Reason: fmt.Sprintf("not a valid JSON document: %v", err)}
	}
	if err := docValidate.Struct(doc); err != nil {
		return models.StoreState{}, &StructureError{Reason: describeValidation(err)}
	}
	if *doc.Version != models.CurrentVersion {
		return models.StoreState{}, &StructureError{Reason: fmt.Sprintf("unsupported version %d (want %d)", *doc.Version, models.CurrentVersion)}
	}

	var state models.StoreState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.StoreState{}, &StructureError{Reason: fmt.Sprintf("document does not match the state shape: %v", err)}
	}
	state.Normalize()
	return state, nil
}

// describeValidation turns the first validator failure into the
// human-readable reason the caller displays.
func describeValidation(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return fmt.Sprintf("missing required section %q", jsonName(fields[0].Field()))
	}
	return err.Error()
}

func jsonName(field string) string {
	switch field {
	case "Version":
		return "version"
	case "Diary":
		return "diary"
	case "Entries":
		return "diary.entries"
	case "Allergens":
		return "allergens"
	case "Statuses":
		return "allergens.statuses"
	case "Milestones":
		return "milestones"
	case "BabyProfile":
		return "babyProfile"
	}
	return field
}

func isJSONArray(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
