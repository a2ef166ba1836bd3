package application

import (
	"sync"
	"time"
)

const (
	defaultFeatureCacheTTL     = 30 * time.Second
	defaultFeatureCacheEntries = 1024
)

// featureCache stores recently read events so the public invitation and RSVP
// paths do not hit the database for every attendee of the same event. Entries
// are invalidated on any event mutation, so the TTL only bounds staleness
// across processes.
type featureCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]featureCacheEntry
}

type featureCacheEntry struct {
	event     Event
	expiresAt time.Time
}

func newFeatureCache(ttl time.Duration, maxEntries int, now func() time.Time) *featureCache {
	if ttl <= 0 {
		ttl = defaultFeatureCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultFeatureCacheEntries
	}
	if now == nil {
		now = time.Now
	}
	return &featureCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]featureCacheEntry),
	}
}

func (c *featureCache) get(eventID string) (Event, bool) {
	if c == nil {
		return Event{}, false
	}

	c.mu.RLock()
	entry, ok := c.entries[eventID]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return Event{}, false
	}
	return entry.event, true
}

func (c *featureCache) put(event Event) {
	if c == nil || event.ID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictExpiredLocked()
	}
	if len(c.entries) >= c.maxEntries {
		return
	}
	c.entries[event.ID] = featureCacheEntry{event: event, expiresAt: c.now().Add(c.ttl)}
}

func (c *featureCache) invalidate(eventID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, eventID)
	c.mu.Unlock()
}

func (c *featureCache) evictExpiredLocked() {
	now := c.now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}
