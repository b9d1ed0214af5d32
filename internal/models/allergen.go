package models

// Allergen identifies one of the fixed set of tracked allergens.
type Allergen string

const (
	AllergenEgg           Allergen = "egg"
	AllergenMilk          Allergen = "milk"
	AllergenFish          Allergen = "fish"
	AllergenShellfish     Allergen = "shellfish"
	AllergenGluten        Allergen = "gluten"
	AllergenSoy           Allergen = "soy"
	AllergenSesame        Allergen = "sesame"
	AllergenTreeNutPowder Allergen = "tree-nut-powder"
)

// Allergens lists every tracked allergen in display order.
var Allergens = []Allergen{
	AllergenEgg,
	AllergenMilk,
	AllergenFish,
	AllergenShellfish,
	AllergenGluten,
	AllergenSoy,
	AllergenSesame,
	AllergenTreeNutPowder,
}

// Valid reports whether a is one of the tracked allergens.
func (a Allergen) Valid() bool {
	for _, known := range Allergens {
		if a == known {
			return true
		}
	}
	return false
}

type AllergenStatus string

const (
	StatusNotIntroduced  AllergenStatus = "not-introduced"
	StatusNoReaction     AllergenStatus = "introduced-no-reaction"
	StatusMildReaction   AllergenStatus = "mild-reaction"
	StatusSevereReaction AllergenStatus = "severe-reaction"
)

// Valid reports whether s is a known allergen status.
func (s AllergenStatus) Valid() bool {
	switch s {
	case StatusNotIntroduced, StatusNoReaction, StatusMildReaction, StatusSevereReaction:
		return true
	}
	return false
}

// Reactive reports whether the status should exclude foods carrying the
// allergen from recipe results.
func (s AllergenStatus) Reactive() bool {
	return s == StatusMildReaction || s == StatusSevereReaction
}

// AllergenRegistry maps allergens to their introduction status. Allergens
// without an explicit entry default to not-introduced.
type AllergenRegistry struct {
	Statuses map[Allergen]AllergenStatus `json:"statuses"`
}

// Status returns the recorded status for a, defaulting to not-introduced.
func (r AllergenRegistry) Status(a Allergen) AllergenStatus {
	if s, ok := r.Statuses[a]; ok {
		return s
	}
	return StatusNotIntroduced
}
