// Package resources loads loose runtime assets from a root directory and
// caches them in memory.
package resources

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

const (
	// assetTTL bounds how long an unused asset stays cached.
	assetTTL = 15 * time.Minute

	numCounters = 10000
	maxCost     = 32 * 1024 * 1024 // 32MB of cached asset bytes
	bufferItems = 64
)

// Cache reads assets addressed as kind/id below a root directory, keeping
// their bytes in a cost-bounded cache. Construct one per game; there is no
// shared global instance.
type Cache struct {
	root  string
	cache *ristretto.Cache[string, []byte]
}

// NewCache creates a cache rooted at the given directory.
func NewCache(root string) (*Cache, error) {
	cache, err := ristretto.NewCache[string, []byte](&ristretto.Config[string, []byte]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("create resource cache: %w", err)
	}
	return &Cache{root: root, cache: cache}, nil
}

func cacheKey(kind, id string) string {
	return kind + "|" + id
}

// Load returns the raw bytes of the asset at root/kind/id, reading the
// file on the first request and serving from cache after.
func (c *Cache) Load(kind, id string) ([]byte, error) {
	key := cacheKey(kind, id)
	c.cache.Wait()
	if data, ok := c.cache.Get(key); ok {
		return data, nil
	}

	path := filepath.Join(c.root, kind, id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s/%s: %w", kind, id, err)
	}

	c.cache.SetWithTTL(key, data, int64(len(data)), assetTTL)
	c.cache.Wait()
	return data, nil
}

// JSON loads an asset and unmarshals it into v.
func (c *Cache) JSON(kind, id string, v any) error {
	data, err := c.Load(kind, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse resource %s/%s: %w", kind, id, err)
	}
	return nil
}

// Clear drops every cached asset; later loads reread from disk.
func (c *Cache) Clear() {
	c.cache.Clear()
}

// Close stops the cache's background workers. The cache is unusable
// afterwards.
func (c *Cache) Close() {
	c.cache.Close()
}
