// Package caching keeps fetched page HTML on disk for a bounded time, so
// repeated detect/extract runs against the same URL do not refetch it.
package caching

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const suffix = ".html"

// Cache is a directory of page bodies keyed by URL. A non-positive TTL
// disables reads; writes still happen so a later run with a TTL can use them.
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

func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) path(rawURL string) string {
	hash := sha256.Sum256([]byte(rawURL))
	return filepath.Join(c.dir, fmt.Sprintf("%x", hash)+suffix)
}

// Get returns the cached body for rawURL and when it was stored. ok is
// false on a miss, an expired entry or a read error.
func (c *Cache) Get(rawURL string) (body []byte, storedAt time.Time, ok bool) {
	if c.ttl <= 0 {
		return nil, time.Time{}, false
	}
	p := c.path(rawURL)
	info, err := os.Stat(p)
	if err != nil {
		return nil, time.Time{}, false
	}
	if c.now().Sub(info.ModTime()) > c.ttl {
		return nil, time.Time{}, false
	}
	body, err = os.ReadFile(p)
	if err != nil {
		return nil, time.Time{}, false
	}
	return body, info.ModTime(), true
}

// Set stores body for rawURL. The write goes through a temp file so a
// concurrent Get never sees a partial body.
func (c *Cache) Set(rawURL string, body []byte) error {
	tmp, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(rawURL)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Delete drops the entry for rawURL. Deleting a missing entry is not an
// error.
func (c *Cache) Delete(rawURL string) error {
	err := os.Remove(c.path(rawURL))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Purge removes expired entries and returns how many it removed.
func (c *Cache) Purge() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if c.ttl > 0 && c.now().Sub(info.ModTime()) <= c.ttl {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
