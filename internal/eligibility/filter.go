// Package eligibility applies the safety filters that decide which
// catalog records may be shown or logged. Filters never reorder their
// input; display sorting belongs to the presentation layer.
package eligibility

import (
	"github.com/cucharita-app/cucharita/internal/age"
	"github.com/cucharita-app/cucharita/internal/catalog"
	"github.com/cucharita-app/cucharita/internal/models"
)

// Eligible returns the records whose minimum age is within the safe age.
// With an unknown safe age nothing is eligible: no profile means nothing
// is shown as safe.
func Eligible(items []catalog.Summary, safeAge age.SafeAge) []catalog.Summary {
	out := []catalog.Summary{}
	if !safeAge.Known {
		return out
	}
	for _, item := range items {
		if item.MinAgeMonths <= safeAge.Months {
			out = append(out, item)
		}
	}
	return out
}

// FilterByRange narrows an already-eligible subset to records whose
// minimum age falls within [minInclusive, maxExclusive). This is a
// browsing convenience layered on top of Eligible, never a replacement
// for it.
func FilterByRange(items []catalog.Summary, minInclusive, maxExclusive int) []catalog.Summary {
	out := []catalog.Summary{}
	for _, item := range items {
		if item.MinAgeMonths >= minInclusive && item.MinAgeMonths < maxExclusive {
			out = append(out, item)
		}
	}
	return out
}

// ExcludeReactive drops detail records tagged with any allergen whose
// registry status is a mild or severe reaction. Not-introduced and
// no-reaction statuses do not exclude.
func ExcludeReactive(items []catalog.Detail, registry models.AllergenRegistry) []catalog.Detail {
	out := []catalog.Detail{}
	for _, item := range items {
		if !hasReactiveTag(item.Allergens, registry) {
			out = append(out, item)
		}
	}
	return out
}

func hasReactiveTag(tags []models.Allergen, registry models.AllergenRegistry) bool {
	for _, tag := range tags {
		if registry.Status(tag).Reactive() {
			return true
		}
	}
	return false
}
