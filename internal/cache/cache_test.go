package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := New(10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit for missing key")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get = %v, %v", got, ok)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	c := New(10, time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry must hit")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry must miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not collected, len = %d", c.Len())
	}
}

func TestCacheCapacityBound(t *testing.T) {
	c := New(3, time.Minute)

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}

	// Only the most recent three survive.
	for i := 7; i < 10; i++ {
		if _, ok := c.Get(fmt.Sprintf("k%d", i)); !ok {
			t.Errorf("k%d evicted too early", i)
		}
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry must be evicted")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a
	c.Set("c", 3)

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New(10, time.Minute)

	c.Set("sess-1:estimates", 1)
	c.Set("sess-1:streams", 2)
	c.Set("sess-2:estimates", 3)

	c.Invalidate("sess-1:estimates")
	if _, ok := c.Get("sess-1:estimates"); ok {
		t.Error("invalidated entry survived")
	}

	c.InvalidatePrefix("sess-1:")
	if _, ok := c.Get("sess-1:streams"); ok {
		t.Error("prefix invalidation missed an entry")
	}
	if _, ok := c.Get("sess-2:estimates"); !ok {
		t.Error("prefix invalidation removed a foreign entry")
	}
}
