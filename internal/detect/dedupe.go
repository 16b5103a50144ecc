package detect

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// dedupeCache suppresses re-emission of an identical (file, line, message)
// key inside a fixed window. Entries are pruned lazily on each check; no
// background timer.
type dedupeCache struct {
	mu         sync.Mutex
	window     time.Duration
	clock      clock.Clock
	seen       map[string]time.Time
	suppressed int
}

func newDedupeCache(window time.Duration, clk clock.Clock) *dedupeCache {
	return &dedupeCache{
		window: window,
		clock:  clk,
		seen:   make(map[string]time.Time),
	}
}

// Check records the key and reports whether the caller should emit.
// Returns false when the same key fired within the window.
func (c *dedupeCache) Check(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.pruneLocked(now)

	if last, ok := c.seen[key]; ok && now.Sub(last) < c.window {
		c.suppressed++
		return false
	}
	c.seen[key] = now
	return true
}

// Suppressed returns how many duplicate signals have been swallowed
func (c *dedupeCache) Suppressed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suppressed
}

// Reset clears the cache and counters
func (c *dedupeCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = make(map[string]time.Time)
	c.suppressed = 0
}

func (c *dedupeCache) pruneLocked(now time.Time) {
	cutoff := now.Add(-c.window)
	for key, last := range c.seen {
		if last.Before(cutoff) {
			delete(c.seen, key)
		}
	}
}
