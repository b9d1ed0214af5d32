package diary

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProfileIncomplete means no safe age can be computed, so nothing can
// be judged eligible. Recoverable: the caller prompts for the profile.
var ErrProfileIncomplete = errors.New("baby profile incomplete: cannot compute a safe age")

// MilestonesIncompleteError blocks a diary save until every developmental
// milestone is checked off. Missing carries the unmet items for display.
type MilestonesIncompleteError struct {
	Missing []string
}

func (e *MilestonesIncompleteError) Error() string {
	return fmt.Sprintf("milestones incomplete: %s", strings.Join(e.Missing, ", "))
}

// FoodIneligibleError rejects a save (or display) of a food outside the
// current safe age, or one that does not resolve in the catalog at all
// (MinAgeMonths is -1 in that case).
type FoodIneligibleError struct {
	FoodID        string
	MinAgeMonths  int
	SafeAgeMonths int
}

func (e *FoodIneligibleError) Error() string {
	if e.MinAgeMonths < 0 {
		return fmt.Sprintf("food %q is not in the catalog", e.FoodID)
	}
	return fmt.Sprintf("food %q requires %d months, current safe age is %d", e.FoodID, e.MinAgeMonths, e.SafeAgeMonths)
}

// ValidationError rejects a malformed entry payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry: %s %s", e.Field, e.Reason)
}
