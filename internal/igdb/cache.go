package igdb

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultCacheTTL is how long match results (positive and negative) are kept.
const DefaultCacheTTL = time.Hour

type cacheEntry struct {
	game   *Game // nil means a confirmed "not found upstream"
	expiry time.Time
}

// MatchCache memoizes Steam app ID → IGDB lookups for one pipeline run.
// Negative results are cached with the same TTL as hits: failed lookups are
// the most repeated calls in a large library. Entries expire lazily at read
// time; there is no background sweep.
//
// The mutex only keeps the map itself safe under concurrent workers. There is
// no single-flight de-duplication: two workers missing on the same key may
// both call upstream, which is acceptable because the fetcher rate-limits.
type MatchCache struct {
	mu      sync.Mutex
	entries map[int]cacheEntry
	ttl     time.Duration

	now func() time.Time
}

// NewMatchCache creates a cache with the given TTL (DefaultCacheTTL if zero).
func NewMatchCache(ttl time.Duration) *MatchCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MatchCache{
		entries: make(map[int]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached game for the app ID and whether an unexpired entry
// exists. A (nil, true) return is a valid negative hit, distinct from a miss.
func (c *MatchCache) Get(appID int) (*Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[appID]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiry) {
		delete(c.entries, appID)
		slog.Debug("Match cache entry expired", "appid", appID)
		return nil, false
	}
	return entry.game, true
}

// Put stores a lookup result for the app ID. Pass nil to record a confirmed
// not-found result.
func (c *MatchCache) Put(appID int, game *Game) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[appID] = cacheEntry{game: game, expiry: c.now().Add(c.ttl)}
	slog.Debug("Cached match result", "appid", appID, "found", game != nil)
}

// Clear drops all entries.
func (c *MatchCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := len(c.entries)
	c.entries = make(map[int]cacheEntry)
	slog.Debug("Match cache cleared", "previous_size", size)
}

// Len returns the number of entries currently held, expired or not.
func (c *MatchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
