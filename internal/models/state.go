package models

import "time"

// CurrentVersion is the schema version tag of the persisted state
// document. Documents without it (bare entry arrays) are legacy and get
// wrapped on the read path.
const CurrentVersion = 1

// StoreState is the aggregate root: exactly one instance exists per
// device and it is always persisted as a whole.
type StoreState struct {
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Diary       DiaryLog           `json:"diary"`
	Allergens   AllergenRegistry   `json:"allergens"`
	Milestones  MilestoneChecklist `json:"milestones"`
	BabyProfile BabyProfile        `json:"babyProfile"`
}

// DefaultState returns a freshly initialized aggregate: empty diary,
// empty allergen map, all milestones unmet, no profile.
func DefaultState(now time.Time) StoreState {
	return StoreState{
		Version:   CurrentVersion,
		CreatedAt: now,
		UpdatedAt: now,
		Diary:     DiaryLog{Entries: []DiaryEntry{}},
		Allergens: AllergenRegistry{Statuses: map[Allergen]AllergenStatus{}},
	}
}

// Normalize initializes nil containers after decoding, so callers never
// see nil maps or entry slices.
func (s *StoreState) Normalize() {
	if s.Diary.Entries == nil {
		s.Diary.Entries = []DiaryEntry{}
	}
	if s.Allergens.Statuses == nil {
		s.Allergens.Statuses = map[Allergen]AllergenStatus{}
	}
}

// Clone returns a deep copy of the aggregate.
func (s StoreState) Clone() StoreState {
	out := s
	out.Diary.Entries = make([]DiaryEntry, len(s.Diary.Entries))
	copy(out.Diary.Entries, s.Diary.Entries)
	out.Allergens.Statuses = make(map[Allergen]AllergenStatus, len(s.Allergens.Statuses))
	for k, v := range s.Allergens.Statuses {
		out.Allergens.Statuses[k] = v
	}
	if s.BabyProfile.GestationWeeks != nil {
		gw := *s.BabyProfile.GestationWeeks
		out.BabyProfile.GestationWeeks = &gw
	}
	return out
}
