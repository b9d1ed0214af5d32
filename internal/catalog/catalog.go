// Package catalog defines the read-only weaning-food catalog the engine
// filters against. The catalog is externally authored and never mutated;
// fetching a record may fail (network, cache miss) independent of the
// data being valid, and callers must treat that failure per item.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucharita-app/cucharita/internal/models"
)

// Summary is one catalog index record. Field names on the wire are fixed
// by the catalog authors; the path is an opaque locator resolved by the
// provider, never parsed by the engine.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"nombre"`
	Group        string `json:"grupo"`
	MinAgeMonths int    `json:"edad_minima"`
	IsAllergen   bool   `json:"es_alergeno"`
	Path         string `json:"path"`
}

// Detail is a per-food document fetched lazily. The engine reads only the
// minimum age and allergen tags; everything else passes through Raw to
// the presentation layer untouched.
type Detail struct {
	ID           string            `json:"id"`
	Name         string            `json:"nombre"`
	MinAgeMonths int               `json:"edad_minima"`
	Allergens    []models.Allergen `json:"alergenos,omitempty"`
	Raw          json.RawMessage   `json:"-"`
}

// Provider supplies the catalog. Summaries returns the full index in the
// provider's insertion order; Detail fetches one record by id. Both are
// read-only and idempotent, so concurrent Detail calls need no
// coordination.
type Provider interface {
	Summaries() ([]Summary, error)
	Detail(ctx context.Context, id string) (Detail, error)
}

// FetchError reports a failed catalog fetch. It is per-item and
// recoverable: sibling fetches and unrelated operations proceed.
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("catalog fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("catalog fetch failed for %q: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// decodeDetail parses a detail document, keeping the raw bytes for
// pass-through.
func decodeDetail(id string, data []byte) (Detail, error) {
	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return Detail{}, &FetchError{ID: id, Err: fmt.Errorf("malformed detail document: %w", err)}
	}
	if d.ID == "" {
		d.ID = id
	}
	d.Raw = append(json.RawMessage(nil), data...)
	return d, nil
}
