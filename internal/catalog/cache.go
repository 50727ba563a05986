package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long cached sheet contents stay fresh.
const DefaultTTL = 10 * time.Minute

// RowReader reads a full sheet: header row first, then data rows.
type RowReader interface {
	ReadAllRows(ctx context.Context, sheet string) ([][]string, error)
}

type cacheEntry struct {
	rows    [][]string
	expires time.Time
}

// Cache is a time-boxed read-through cache of sheet contents, keyed by sheet
// name. An entry is refreshed on expiry or explicit invalidation; writes to a
// sheet must be followed by Invalidate so the next read sees them.
type Cache struct {
	Source RowReader
	TTL    time.Duration
	Now    func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates a cache over src with the default TTL.
func NewCache(src RowReader) *Cache {
	return &Cache{
		Source:  src,
		TTL:     DefaultTTL,
		Now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// ReadAllRows returns the cached rows for a sheet, reading through to the
// source when the entry is missing or expired. Source errors are not cached.
func (c *Cache) ReadAllRows(ctx context.Context, sheet string) ([][]string, error) {
	c.mu.Lock()
	entry, ok := c.entries[sheet]
	if ok && c.Now().Before(entry.expires) {
		c.mu.Unlock()
		return entry.rows, nil
	}
	c.mu.Unlock()

	rows, err := c.Source.ReadAllRows(ctx, sheet)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[sheet] = cacheEntry{rows: rows, expires: c.Now().Add(c.TTL)}
	c.mu.Unlock()
	return rows, nil
}

// Invalidate drops the cached entry for one sheet, or all entries when sheet
// is empty.
func (c *Cache) Invalidate(sheet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sheet == "" {
		c.entries = make(map[string]cacheEntry)
		return
	}
	delete(c.entries, sheet)
}
