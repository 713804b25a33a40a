// Package cache memoizes imported print models per file path.
package cache

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/philipparndt/printtracker/pkg/importer"
	"github.com/philipparndt/printtracker/pkg/mesh"
)

// PrintModelCache holds one PrintModel per file and runs at most one import
// per path at a time. Concurrent callers for the same path share the
// in-flight import. Failed imports are never cached.
type PrintModelCache struct {
	importer importer.Importer
	group    singleflight.Group

	mu     sync.RWMutex
	models map[string]mesh.PrintModel
	// gens is bumped on every invalidation so that an import started before
	// the invalidation does not store its stale result.
	gens map[string]uint64
}

// New creates a cache backed by imp. A nil importer uses importer.FileImporter.
func New(imp importer.Importer) *PrintModelCache {
	if imp == nil {
		imp = importer.FileImporter{}
	}
	return &PrintModelCache{
		importer: imp,
		models:   make(map[string]mesh.PrintModel),
		gens:     make(map[string]uint64),
	}
}

// Key normalizes a path to the form used for cache entries
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// GetPrintModel returns the cached model for path, importing it if needed.
// Cancelling ctx abandons the wait but not the shared import, which still
// completes and populates the cache for later callers.
func (c *PrintModelCache) GetPrintModel(ctx context.Context, path string) (mesh.PrintModel, error) {
	key := Key(path)
	if model, ok := c.lookup(key); ok {
		return model, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.load(key)
	})

	select {
	case <-ctx.Done():
		return mesh.PrintModel{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return mesh.PrintModel{}, res.Err
		}
		return res.Val.(mesh.PrintModel), nil
	}
}

// PreloadPrintModel warms the cache for path. It behaves like GetPrintModel.
func (c *PrintModelCache) PreloadPrintModel(ctx context.Context, path string) error {
	_, err := c.GetPrintModel(ctx, path)
	return err
}

// InvalidatePrintModel drops the entry for path. Absent entries are ignored.
func (c *PrintModelCache) InvalidatePrintModel(path string) {
	key := Key(path)

	c.mu.Lock()
	delete(c.models, key)
	c.gens[key]++
	c.mu.Unlock()

	// Callers arriving after this point start a fresh import.
	c.group.Forget(key)
}

// Len returns the number of cached models
func (c *PrintModelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.models)
}

func (c *PrintModelCache) lookup(key string) (mesh.PrintModel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	model, ok := c.models[key]
	return model, ok
}

func (c *PrintModelCache) load(key string) (mesh.PrintModel, error) {
	c.mu.RLock()
	if model, ok := c.models[key]; ok {
		c.mu.RUnlock()
		return model, nil
	}
	gen := c.gens[key]
	c.mu.RUnlock()

	model, err := c.importer.Import(key)
	if err != nil {
		return mesh.PrintModel{}, err
	}

	c.mu.Lock()
	if c.gens[key] == gen {
		c.models[key] = model
	}
	c.mu.Unlock()

	return model, nil
}
