// Package age computes the safe age in months used by every eligibility
// check. For infants born before 37 weeks gestation the corrected age
// (counted from the probable due date) fully replaces the chronological
// value.
package age

import (
	"time"

	"github.com/cucharita-app/cucharita/internal/models"
)

// SafeAge is the single source of truth for eligibility. Known is false
// when no age can be computed (no parseable birth date), in which case
// Months is meaningless and callers must fail closed.
type SafeAge struct {
	Months int
	Known  bool
}

// Unknown is the zero SafeAge, returned when the profile is incomplete.
var Unknown = SafeAge{}

// Compute derives the safe age from the profile at the given date. Pure:
// callers supply "today" explicitly (tests use fixed dates). Time of day
// and timezone of today are ignored; only its calendar date counts.
func Compute(p models.BabyProfile, today time.Time) SafeAge {
	if p.BirthDate == "" {
		return Unknown
	}
	epoch, err := models.ParseDate(p.BirthDate)
	if err != nil {
		return Unknown
	}

	// Corrected age substitutes the due-date epoch entirely. A preterm
	// profile without a due date falls back to chronological age; the
	// presentation layer prompts for the missing date, it never blocks.
	if p.Preterm() && p.DueDate != "" {
		if due, err := models.ParseDate(p.DueDate); err == nil {
			epoch = due
		}
	}

	months := monthsBetween(epoch, today.UTC())
	if months < 0 {
		months = 0
	}
	return SafeAge{Months: months, Known: true}
}

// monthsBetween counts whole calendar months from 'from' to 'to'. The
// partial final month counts only once to's day-of-month reaches from's.
func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	return months
}
