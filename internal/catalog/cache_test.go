package catalog

import (
	"context"
	"fmt"
	"testing"
)

// flakyProvider serves from a fixed map until it is switched offline.
type flakyProvider struct {
	summaries []Summary
	details   map[string][]byte
	offline   bool
}

func (f *flakyProvider) Summaries() ([]Summary, error) {
	if f.offline {
		return nil, &FetchError{Err: fmt.Errorf("offline")}
	}
	return f.summaries, nil
}

func (f *flakyProvider) Detail(_ context.Context, id string) (Detail, error) {
	if f.offline {
		return Detail{}, &FetchError{ID: id, Err: fmt.Errorf("offline")}
	}
	data, ok := f.details[id]
	if !ok {
		return Detail{}, &FetchError{ID: id, Err: fmt.Errorf("not in catalog index")}
	}
	return decodeDetail(id, data)
}

func newFlaky() *flakyProvider {
	return &flakyProvider{
		summaries: []Summary{{ID: "platano", Name: "Plátano", MinAgeMonths: 6}},
		details: map[string][]byte{
			"platano": []byte(`{"id":"platano","nombre":"Plátano","edad_minima":6}`),
		},
	}
}

func TestCachedProvider_ServesDetailFromMemoryWhenOffline(t *testing.T) {
	inner := newFlaky()
	cached := NewCachedProvider(inner, "")

	// Warm the cache while the inner provider works.
	if _, err := cached.Detail(context.Background(), "platano"); err != nil {
		t.Fatalf("warm fetch failed: %v", err)
	}

	inner.offline = true

	got, err := cached.Detail(context.Background(), "platano")
	if err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if got.ID != "platano" || got.MinAgeMonths != 6 {
		t.Errorf("cached detail = %+v", got)
	}
}

func TestCachedProvider_UnseenDetailSurfacesOriginalError(t *testing.T) {
	inner := newFlaky()
	inner.offline = true
	cached := NewCachedProvider(inner, "")

	_, err := cached.Detail(context.Background(), "platano")
	if err == nil {
		t.Fatalf("expected the inner error for an unseen record")
	}
}

func TestCachedProvider_DiskCacheSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	inner := newFlaky()
	first := NewCachedProvider(inner, dir)
	if _, err := first.Detail(context.Background(), "platano"); err != nil {
		t.Fatalf("warm fetch failed: %v", err)
	}

	// A fresh provider instance over the same cache directory, with the
	// inner provider gone, still serves the record.
	offline := newFlaky()
	offline.offline = true
	second := NewCachedProvider(offline, dir)

	got, err := second.Detail(context.Background(), "platano")
	if err != nil {
		t.Fatalf("disk-cached fetch failed: %v", err)
	}
	if got.MinAgeMonths != 6 {
		t.Errorf("disk-cached detail = %+v", got)
	}
}

func TestCachedProvider_SummariesFallBackToLastGoodIndex(t *testing.T) {
	inner := newFlaky()
	cached := NewCachedProvider(inner, "")

	if _, err := cached.Summaries(); err != nil {
		t.Fatalf("warm fetch failed: %v", err)
	}

	inner.offline = true

	got, err := cached.Summaries()
	if err != nil {
		t.Fatalf("fallback fetch failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "platano" {
		t.Errorf("fallback index = %+v", got)
	}
}

func TestCachedProvider_SummariesErrorWithoutPriorIndex(t *testing.T) {
	inner := newFlaky()
	inner.offline = true
	cached := NewCachedProvider(inner, "")

	if _, err := cached.Summaries(); err == nil {
		t.Fatalf("expected an error when no index was ever fetched")
	}
}

func TestCachedProvider_FreshDataRefreshesCache(t *testing.T) {
	inner := newFlaky()
	cached := NewCachedProvider(inner, "")

	if _, err := cached.Detail(context.Background(), "platano"); err != nil {
		t.Fatal(err)
	}

	inner.details["platano"] = []byte(`{"id":"platano","nombre":"Plátano","edad_minima":7}`)

	got, err := cached.Detail(context.Background(), "platano")
	if err != nil {
		t.Fatal(err)
	}
	if got.MinAgeMonths != 7 {
		t.Errorf("cache served stale data while the inner provider works: %+v", got)
	}
}
