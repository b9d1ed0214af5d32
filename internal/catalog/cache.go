package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CachedProvider wraps another provider so that once a record has been
// fetched successfully, subsequent fetches succeed without the inner
// provider (offline operation). Details land in memory and, when a cache
// directory is configured, on disk across processes.
type CachedProvider struct {
	inner    Provider
	cacheDir string

	mu      sync.Mutex
	index   []Summary
	details map[string]Detail
}

// NewCachedProvider wraps inner. cacheDir may be empty for a
// memory-only cache.
func NewCachedProvider(inner Provider, cacheDir string) *CachedProvider {
	return &CachedProvider{
		inner:    inner,
		cacheDir: cacheDir,
		details:  map[string]Detail{},
	}
}

// Summaries returns the cached index, refreshing it from the inner
// provider when possible. A failed refresh falls back to the last good
// index instead of erroring.
func (c *CachedProvider) Summaries() ([]Summary, error) {
	index, err := c.inner.Summaries()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if c.index == nil {
			return nil, err
		}
		index = c.index
	} else {
		c.index = index
	}
	out := make([]Summary, len(index))
	copy(out, index)
	return out, nil
}

// Detail fetches through the cache. Fresh results are written to the
// cache; inner-provider failures are answered from the cache when the
// record has been seen before, and surface as the original error
// otherwise.
func (c *CachedProvider) Detail(ctx context.Context, id string) (Detail, error) {
	d, err := c.inner.Detail(ctx, id)
	if err == nil {
		c.store(id, d)
		return d, nil
	}
	if cached, ok := c.lookup(id); ok {
		return cached, nil
	}
	return Detail{}, err
}

func (c *CachedProvider) store(id string, d Detail) {
	c.mu.Lock()
	c.details[id] = d
	c.mu.Unlock()

	if c.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(c.cacheDir, 0700); err != nil {
		return
	}
	// Cache write failure only costs offline availability; ignore it.
	_ = os.WriteFile(c.cachePath(id), d.Raw, 0600)
}

func (c *CachedProvider) lookup(id string) (Detail, bool) {
	c.mu.Lock()
	d, ok := c.details[id]
	c.mu.Unlock()
	if ok {
		return d, true
	}

	if c.cacheDir == "" {
		return Detail{}, false
	}
	data, err := os.ReadFile(c.cachePath(id))
	if err != nil {
		return Detail{}, false
	}
	d, err = decodeDetail(id, data)
	if err != nil {
		return Detail{}, false
	}
	c.mu.Lock()
	c.details[id] = d
	c.mu.Unlock()
	return d, true
}

func (c *CachedProvider) cachePath(id string) string {
	// ids are catalog-author controlled; sanitize anyway so a hostile id
	// cannot escape the cache directory
	safe := fmt.Sprintf("%x", []byte(id))
	return filepath.Join(c.cacheDir, safe+".json")
}
