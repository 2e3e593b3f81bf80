package domain

import (
	"sync"

	"golang.org/x/sync/singleflight"

	m "github.com/mouse-blink/auditor/internal/model"
	"github.com/mouse-blink/auditor/internal/script"
)

// DefaultCacheSize bounds the number of parsed fragments kept in memory.
const DefaultCacheSize = 4096

// ASTCache parses script fragments at most once per (path, text) pair.
// Cached programs are shared and must be treated as read-only.
type ASTCache interface {
	Parse(path m.Path, code string) (*script.Program, error)
	Len() int
}

type cacheKey struct {
	path m.Path
	code string
}

type cacheEntry struct {
	prog *script.Program
	err  error
}

// MemoryCache is a bounded in-memory ASTCache with first-in, first-out
// eviction. Parse failures are cached too.
type MemoryCache struct {
	mu      sync.Mutex
	limit   int
	entries map[cacheKey]cacheEntry
	order   []cacheKey
	group   singleflight.Group
}

// NewMemoryCache creates a cache holding at most limit entries;
// limit <= 0 selects DefaultCacheSize.
func NewMemoryCache(limit int) *MemoryCache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}

	return &MemoryCache{limit: limit, entries: make(map[cacheKey]cacheEntry)}
}

// Parse returns the cached program for the key, parsing it on first use.
// Concurrent requests for the same key share one parse.
func (c *MemoryCache) Parse(path m.Path, code string) (*script.Program, error) {
	key := cacheKey{path: path, code: code}

	c.mu.Lock()
	entry, ok := c.entries[key]
	c.mu.Unlock()

	if ok {
		return entry.prog, entry.err
	}

	v, _, _ := c.group.Do(string(path)+"\x00"+code, func() (any, error) {
		prog, err := script.Parse(code)
		e := cacheEntry{prog: prog, err: err}
		c.store(key, e)

		return e, nil
	})

	e := v.(cacheEntry) //nolint:forcetypeassert // the group only stores cacheEntry

	return e.prog, e.err
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

func (c *MemoryCache) store(key cacheKey, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return
	}

	if len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = e
	c.order = append(c.order, key)
}
