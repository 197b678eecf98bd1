package search

import (
	"strings"
	"sync"

	"mediacatalog/searchservice/internal/domain"
	"mediacatalog/searchservice/internal/metrics"
)

// titleCache holds per-token title match lists scoped to a store generation.
// Entries from an older generation are dropped wholesale on the first access
// after the store mutates; there is no per-entry TTL because correctness is
// tied to the generation, not to time.
type titleCache struct {
	mu         sync.Mutex
	generation uint64
	entries    map[string][]domain.Media
}

func newTitleCache() *titleCache {
	return &titleCache{entries: make(map[string][]domain.Media)}
}

func (c *titleCache) get(generation uint64, token string) ([]domain.Media, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		c.generation = generation
		c.entries = make(map[string][]domain.Media)
		metrics.CacheMissesTotal.WithLabelValues("title").Inc()
		return nil, false
	}
	matches, ok := c.entries[token]
	if !ok {
		metrics.CacheMissesTotal.WithLabelValues("title").Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.WithLabelValues("title").Inc()
	return matches, true
}

func (c *titleCache) put(generation uint64, token string, matches []domain.Media) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		c.generation = generation
		c.entries = make(map[string][]domain.Media)
	}
	c.entries[token] = matches
}

// categoryCache maps a token to the fixed categories whose display name
// contains it. The category vocabulary never changes at runtime, so entries
// live for the lifetime of the process and survive every catalog mutation.
type categoryCache struct {
	mu      sync.RWMutex
	entries map[string][]domain.Category
}

func newCategoryCache() *categoryCache {
	return &categoryCache{entries: make(map[string][]domain.Category)}
}

// matching returns the categories whose lowercased name contains the token.
// The token must already be lowercased.
func (c *categoryCache) matching(token string) []domain.Category {
	c.mu.RLock()
	matches, ok := c.entries[token]
	c.mu.RUnlock()
	if ok {
		metrics.CacheHitsTotal.WithLabelValues("category").Inc()
		return matches
	}
	metrics.CacheMissesTotal.WithLabelValues("category").Inc()

	matches = nil
	for i, name := range domain.CategoryStringsLower() {
		if strings.Contains(name, token) {
			matches = append(matches, domain.Category(i))
		}
	}

	c.mu.Lock()
	c.entries[token] = matches
	c.mu.Unlock()
	return matches
}
