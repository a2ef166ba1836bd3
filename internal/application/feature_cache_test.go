package application

import (
	"testing"
	"time"
)

func TestFeatureCache(t *testing.T) {
	t.Run("entries expire after the ttl", func(t *testing.T) {
		current := testReference
		cache := newFeatureCache(30*time.Second, 4, func() time.Time { return current })

		cache.put(Event{ID: "event-1", Title: "Party"})
		if _, ok := cache.get("event-1"); !ok {
			t.Fatal("expected a fresh entry to hit")
		}

		current = current.Add(31 * time.Second)
		if _, ok := cache.get("event-1"); ok {
			t.Fatal("expected the entry to expire after the ttl")
		}
	})

	t.Run("invalidate removes the entry immediately", func(t *testing.T) {
		cache := newFeatureCache(time.Minute, 4, fixedNow)
		cache.put(Event{ID: "event-1"})
		cache.invalidate("event-1")
		if _, ok := cache.get("event-1"); ok {
			t.Fatal("expected invalidated entry to miss")
		}
	})

	t.Run("full cache evicts expired entries before inserting", func(t *testing.T) {
		current := testReference
		cache := newFeatureCache(10*time.Second, 2, func() time.Time { return current })

		cache.put(Event{ID: "event-1"})
		cache.put(Event{ID: "event-2"})

		current = current.Add(11 * time.Second)
		cache.put(Event{ID: "event-3"})
		if _, ok := cache.get("event-3"); !ok {
			t.Fatal("expected insert to succeed after evicting expired entries")
		}
	})

	t.Run("nil cache is inert", func(t *testing.T) {
		var cache *featureCache
		cache.put(Event{ID: "event-1"})
		cache.invalidate("event-1")
		if _, ok := cache.get("event-1"); ok {
			t.Fatal("nil cache must never hit")
		}
	})
}
