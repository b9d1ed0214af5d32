// Package diary owns feeding-log writes. Every save runs a fixed
// precondition chain: milestone gate, then known safe age, then food
// eligibility, then payload shape. The chain short-circuits on the first
// failure; only then does the entry reach the store. Deletes are
// unconditional: removing a record is always safe.
package diary

import (
	"context"
	"time"

	"github.com/cucharita-app/cucharita/internal/age"
	"github.com/cucharita-app/cucharita/internal/catalog"
	"github.com/cucharita-app/cucharita/internal/logger"
	"github.com/cucharita-app/cucharita/internal/models"
	"github.com/cucharita-app/cucharita/internal/store"
	"github.com/google/uuid"
)

// AllergenNotice is the advisory side effect of saving an allergen-
// flagged food: the current registry status of each of the food's
// allergen tags, surfaced for the caregiver's attention. The engine never
// changes the registry itself.
type AllergenNotice struct {
	FoodID    string
	Allergens []models.Allergen
	Statuses  map[models.Allergen]models.AllergenStatus
}

// Engine performs diary CRUD against the store.
type Engine struct {
	store   *store.Store
	catalog catalog.Provider
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for timestamps and for "today"
// in age computation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(st *store.Store, cat catalog.Provider, opts ...Option) *Engine {
	e := &Engine{
		store:   st,
		catalog: cat,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Save validates and upserts an entry. An entry with an empty ID is
// assigned one; an entry whose ID already exists replaces the stored one
// in place, keeping its original createdAt. The returned notice is non-nil
// when the saved food is allergen-flagged.
//
// A *store.StorageError return means the entry was accepted and is
// visible in memory but could not be persisted; callers surface it as a
// warning, not a failure.
func (e *Engine) Save(ctx context.Context, entry models.DiaryEntry) (models.DiaryEntry, *AllergenNotice, error) {
	state := e.store.Read()
	now := e.now()

	// 1. Milestone gate. Hard stop, no override.
	if !state.Milestones.Complete() {
		return models.DiaryEntry{}, nil, &MilestonesIncompleteError{Missing: state.Milestones.Missing()}
	}

	// 2. Safe age must be known.
	safeAge := age.Compute(state.BabyProfile, now)
	if !safeAge.Known {
		return models.DiaryEntry{}, nil, ErrProfileIncomplete
	}

	// 3. Food must resolve and be age-permitted right now. Historical
	// entries are not re-validated on read.
	summaries, err := e.catalog.Summaries()
	if err != nil {
		return models.DiaryEntry{}, nil, err
	}
	var summary catalog.Summary
	found := false
	for _, s := range summaries {
		if s.ID == entry.FoodID {
			summary = s
			found = true
			break
		}
	}
	if !found {
		return models.DiaryEntry{}, nil, &FoodIneligibleError{FoodID: entry.FoodID, MinAgeMonths: -1, SafeAgeMonths: safeAge.Months}
	}
	if summary.MinAgeMonths > safeAge.Months {
		return models.DiaryEntry{}, nil, &FoodIneligibleError{FoodID: entry.FoodID, MinAgeMonths: summary.MinAgeMonths, SafeAgeMonths: safeAge.Months}
	}

	// 4. Payload shape.
	if err := validate(entry); err != nil {
		return models.DiaryEntry{}, nil, err
	}

	// Upsert by id, preserving createdAt and position on replace.
	entries := state.Diary.Entries
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.UpdatedAt = now
	replaced := false
	for i, existing := range entries {
		if existing.ID == entry.ID {
			entry.CreatedAt = existing.CreatedAt
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entry.CreatedAt = now
		entries = append(entries, entry)
	}

	_, writeErr := e.store.Write(models.StatePatch{Diary: &models.DiaryPatch{Entries: entries}})

	var notice *AllergenNotice
	if summary.IsAllergen {
		notice = e.buildNotice(ctx, entry.FoodID, state.Allergens)
	}

	return entry, notice, writeErr
}

// buildNotice looks up the food's allergen tags. A failed detail fetch
// does not fail the save; the notice then names no specific allergens.
func (e *Engine) buildNotice(ctx context.Context, foodID string, registry models.AllergenRegistry) *AllergenNotice {
	notice := &AllergenNotice{
		FoodID:   foodID,
		Statuses: map[models.Allergen]models.AllergenStatus{},
	}
	detail, err := e.catalog.Detail(ctx, foodID)
	if err != nil {
		logger.Warn("could not resolve allergen tags for notice", "food", foodID, "error", err)
		return notice
	}
	notice.Allergens = detail.Allergens
	for _, a := range detail.Allergens {
		notice.Statuses[a] = registry.Status(a)
	}
	return notice
}

func validate(entry models.DiaryEntry) error {
	if entry.FoodID == "" {
		return &ValidationError{Field: "foodId", Reason: "is required"}
	}
	if _, err := models.ParseDate(entry.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	if !entry.Quantity.Valid() {
		return &ValidationError{Field: "quantity", Reason: "is not a known value"}
	}
	if !entry.Texture.Valid() {
		return &ValidationError{Field: "texture", Reason: "is not a known value"}
	}
	if !entry.Reaction.Valid() {
		return &ValidationError{Field: "reaction", Reason: "is not a known value"}
	}
	return nil
}

// Delete removes an entry by id, reporting whether it existed. No gate
// re-check applies.
func (e *Engine) Delete(id string) (bool, error) {
	state := e.store.Read()
	entries := state.Diary.Entries
	for i, existing := range entries {
		if existing.ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			_, err := e.store.Write(models.StatePatch{Diary: &models.DiaryPatch{Entries: entries}})
			return true, err
		}
	}
	return false, nil
}

// Day returns the entries logged for a target date, in stored order.
func (e *Engine) Day(date string) []models.DiaryEntry {
	return e.store.Read().Diary.ForDay(date)
}
