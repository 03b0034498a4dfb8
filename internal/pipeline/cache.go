package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/docxmd/internal/linearize"
)

type cacheEntry struct {
	markdown string
	storedAt time.Time
}

// ResultCache keeps converted Markdown keyed by content digest and options.
// Conversion is deterministic, so an identical upload can reuse a result.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// CacheKey combines a content digest with the options that shape output.
func CacheKey(digest string, opts linearize.Options) string {
	return digest + ":" + opts.Ordinals.String() + ":" + opts.Labels.String()
}

func (c *ResultCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if time.Since(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return e.markdown, true
}

func (c *ResultCache) Put(key, markdown string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{markdown: markdown, storedAt: time.Now()}
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *ResultCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
}
