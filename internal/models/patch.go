package models

// StatePatch is a partial update to the aggregate. Nil sections are left
// untouched; present sections merge field-by-field (maps key-by-key,
// slices and leaf values replace wholesale). A shallow overwrite is
// deliberately not offered: updating one allergen must never erase the
// others.
type StatePatch struct {
	BabyProfile *ProfilePatch
	Milestones  *MilestonePatch
	Allergens   *AllergenPatch
	Diary       *DiaryPatch
}

type ProfilePatch struct {
	BirthDate      *string
	GestationWeeks *int
	DueDate        *string
}

type MilestonePatch struct {
	Seated         *bool
	NoExtrusion    *bool
	InterestInFood *bool
	HandToMouth    *bool
}

// AllergenPatch merges statuses key-by-key into the registry.
type AllergenPatch struct {
	Statuses map[Allergen]AllergenStatus
}

// DiaryPatch replaces the entry collection wholesale.
type DiaryPatch struct {
	Entries []DiaryEntry
}

// Apply merges the patch into s.
func (p StatePatch) Apply(s *StoreState) {
	if p.BabyProfile != nil {
		if p.BabyProfile.BirthDate != nil {
			s.BabyProfile.BirthDate = *p.BabyProfile.BirthDate
		}
		if p.BabyProfile.GestationWeeks != nil {
			gw := *p.BabyProfile.GestationWeeks
			s.BabyProfile.GestationWeeks = &gw
		}
		if p.BabyProfile.DueDate != nil {
			s.BabyProfile.DueDate = *p.BabyProfile.DueDate
		}
	}
	if p.Milestones != nil {
		if p.Milestones.Seated != nil {
			s.Milestones.Seated = *p.Milestones.Seated
		}
		if p.Milestones.NoExtrusion != nil {
			s.Milestones.NoExtrusion = *p.Milestones.NoExtrusion
		}
		if p.Milestones.InterestInFood != nil {
			s.Milestones.InterestInFood = *p.Milestones.InterestInFood
		}
		if p.Milestones.HandToMouth != nil {
			s.Milestones.HandToMouth = *p.Milestones.HandToMouth
		}
	}
	if p.Allergens != nil {
		if s.Allergens.Statuses == nil {
			s.Allergens.Statuses = map[Allergen]AllergenStatus{}
		}
		for k, v := range p.Allergens.Statuses {
			s.Allergens.Statuses[k] = v
		}
	}
	if p.Diary != nil {
		entries := make([]DiaryEntry, len(p.Diary.Entries))
		copy(entries, p.Diary.Entries)
		s.Diary.Entries = entries
	}
}
