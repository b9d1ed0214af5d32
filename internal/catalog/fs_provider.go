package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed data
var defaultData embed.FS

// IndexFile is the catalog index filename within a provider filesystem.
const IndexFile = "catalog.json"

// FSProvider serves the catalog from a filesystem: an index file of
// summaries plus one detail document per record at the summary's path.
type FSProvider struct {
	fsys fs.FS

	mu    sync.Mutex
	index []Summary
	byID  map[string]Summary
}

// NewFSProvider returns a provider over fsys.
func NewFSProvider(fsys fs.FS) *FSProvider {
	return &FSProvider{fsys: fsys}
}

// Default returns the provider over the catalog shipped with the binary.
func Default() *FSProvider {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return NewFSProvider(sub)
}

func (p *FSProvider) load() error {
	if p.index != nil {
		return nil
	}
	data, err := fs.ReadFile(p.fsys, IndexFile)
	if err != nil {
		return &FetchError{Err: fmt.Errorf("reading catalog index: %w", err)}
	}
	var index []Summary
	if err := json.Unmarshal(data, &index); err != nil {
		return &FetchError{Err: fmt.Errorf("malformed catalog index: %w", err)}
	}
	byID := make(map[string]Summary, len(index))
	for _, s := range index {
		byID[s.ID] = s
	}
	p.index = index
	p.byID = byID
	return nil
}

// Summaries returns the index records in file order.
func (p *FSProvider) Summaries() ([]Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.load(); err != nil {
		return nil, err
	}
	out := make([]Summary, len(p.index))
	copy(out, p.index)
	return out, nil
}

// Detail fetches the record behind the summary's path.
func (p *FSProvider) Detail(ctx context.Context, id string) (Detail, error) {
	if err := ctx.Err(); err != nil {
		return Detail{}, &FetchError{ID: id, Err: err}
	}

	p.mu.Lock()
	err := p.load()
	var summary Summary
	var ok bool
	if err == nil {
		summary, ok = p.byID[id]
	}
	p.mu.Unlock()

	if err != nil {
		return Detail{}, err
	}
	if !ok {
		return Detail{}, &FetchError{ID: id, Err: fmt.Errorf("not in catalog index")}
	}

	data, err := fs.ReadFile(p.fsys, summary.Path)
	if err != nil {
		return Detail{}, &FetchError{ID: id, Err: err}
	}
	return decodeDetail(id, data)
}
