// Package cache keeps GitHub lookups between runs so that enrichment does
// not hit the API for every report on every regeneration.
package cache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a lookup stays valid. Star counts in a daily report
// are a day old anyway.
const DefaultTTL = 24 * time.Hour

// Cache wraps go-cache with gob persistence.
type Cache struct {
	inner *gocache.Cache
	ttl   time.Duration
}

// New creates an empty cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{inner: gocache.New(ttl, 2*ttl), ttl: ttl}
}

// LoadFromFile loads a cache from a gob file. A missing or undecodable file
// yields an empty cache.
func LoadFromFile(filename string, ttl time.Duration) (*Cache, error) {
	c := New(ttl)
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	items := map[string]gocache.Item{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&items); err != nil {
		slog.Warn("cache decode failed, starting fresh", "file", filename, "err", err)
		return c, nil
	}
	c.inner = gocache.NewFrom(c.ttl, 2*c.ttl, items)
	c.inner.DeleteExpired()
	return c, nil
}

// SaveToFile writes the unexpired entries to a gob file.
func (c *Cache) SaveToFile(filename string) error {
	c.inner.DeleteExpired()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c.inner.Items()); err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filename, buf.Bytes(), 0600)
}

// Get retrieves a value by key.
func (c *Cache) Get(key string) (any, bool) {
	return c.inner.Get(key)
}

// Set stores a value with the cache TTL.
func (c *Cache) Set(key string, val any) {
	c.inner.Set(key, val, gocache.DefaultExpiration)
}

// Len is the number of entries, expired ones included until the next save.
func (c *Cache) Len() int {
	return c.inner.ItemCount()
}

// Flush clears all cached items.
func (c *Cache) Flush() {
	c.inner.Flush()
}
