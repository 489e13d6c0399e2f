// Package caching keeps fetched pages on disk so repeated scrapes skip the network.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const pageExt = ".html"

// Cache stores page bodies keyed by URL, each entry valid for ttl.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewCache creates the cache directory if needed.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *Cache) entry(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, fmt.Sprintf("%x%s", sum, pageExt))
}

func (c *Cache) expired(mod time.Time) bool {
	return c.ttl > 0 && c.now().Sub(mod) > c.ttl
}

// Get returns the cached body for url if present and younger than the TTL.
// A zero TTL never expires.
func (c *Cache) Get(url string) ([]byte, bool) {
	p := c.entry(url)
	info, err := os.Stat(p)
	if err != nil || c.expired(info.ModTime()) {
		return nil, false
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(url string, data []byte) error {
	if err := os.WriteFile(c.entry(url), data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Prune deletes expired entries and returns how many were removed.
func (c *Cache) Prune() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), pageExt) {
			continue
		}
		info, err := e.Info()
		if err != nil || !c.expired(info.ModTime()) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove cache entry: %w", err)
		}
		removed++
	}
	return removed, nil
}
