package models

import "time"

type Quantity string

const (
	QuantityExploration Quantity = "exploration"
	QuantityTasted      Quantity = "tasted"
	QuantityAteLittle   Quantity = "ate-little"
	QuantityAteWell     Quantity = "ate-well"
)

func (q Quantity) Valid() bool {
	switch q {
	case QuantityExploration, QuantityTasted, QuantityAteLittle, QuantityAteWell:
		return true
	}
	return false
}

type Texture string

const (
	TextureWholeSoft Texture = "whole-soft"
	TextureSticks    Texture = "sticks"
	TextureMashed    Texture = "mashed"
)

func (t Texture) Valid() bool {
	switch t {
	case TextureWholeSoft, TextureSticks, TextureMashed:
		return true
	}
	return false
}

type Reaction string

const (
	ReactionLiked    Reaction = "liked"
	ReactionNeutral  Reaction = "neutral"
	ReactionDisliked Reaction = "disliked"
)

func (r Reaction) Valid() bool {
	switch r {
	case ReactionLiked, ReactionNeutral, ReactionDisliked:
		return true
	}
	return false
}

// DiaryEntry is one feeding-log record. Date is the target calendar day
// the entry belongs to (the grouping key), not the creation time. The ID
// is generated at creation and stable thereafter; edits replace the entry
// in place by ID.
type DiaryEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	FoodID    string    `json:"foodId"`
	Quantity  Quantity  `json:"quantity"`
	Texture   Texture   `json:"texture"`
	Reaction  Reaction  `json:"reaction"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DiaryLog holds every diary entry, in insertion order.
type DiaryLog struct {
	Entries []DiaryEntry `json:"entries"`
}

// ForDay returns the entries whose target date equals day (YYYY-MM-DD),
// preserving stored order.
func (d DiaryLog) ForDay(day string) []DiaryEntry {
	var out []DiaryEntry
	for _, e := range d.Entries {
		if e.Date == day {
			out = append(out, e)
		}
	}
	return out
}
