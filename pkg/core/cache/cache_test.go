package cache

import (
	"errors"
	"testing"
	"time"
)

// fakeClock advances one second per reading
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time {
	f.t = f.t.Add(time.Second)
	return f.t
}

func newTestCache(cfg Config) (*Cache[string, int], *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New[string, int](cfg)
	c.now = clock.now
	return c, clock
}

func TestCache_GetSet(t *testing.T) {
	c, _ := newTestCache(DefaultConfig())

	if _, ok := c.Get("a"); ok {
		t.Error("Get() on empty cache should miss")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get() = %v, %v, want 1, true", v, ok)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit 1 miss", stats)
	}
	if stats.HitRate() != 50 {
		t.Errorf("HitRate() = %v, want 50", stats.HitRate())
	}
}

func TestCache_TTL(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 4, TTL: 3 * time.Second})

	c.Set("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry expired too early")
	}
	c.now()
	c.now()
	if _, ok := c.Get("a"); ok {
		t.Error("entry should have expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, expired entry should be dropped", c.Len())
	}
}

func TestCache_EvictsOldest(t *testing.T) {
	c, _ := newTestCache(Config{MaxItems: 2})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should be evicted")
	}
	for _, k := range []string{"b", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("Get(%s) missed", k)
		}
	}

	// overwriting an existing key does not evict
	c.Set("b", 20)
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCache_GetOrLoad(t *testing.T) {
	c, _ := newTestCache(DefaultConfig())
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad("k", load)
		if err != nil || v != 42 {
			t.Fatalf("GetOrLoad() = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}

	_, err := c.GetOrLoad("bad", func() (int, error) { return 0, errors.New("boom") })
	if err == nil {
		t.Fatal("GetOrLoad() should return the load error")
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("errors must not be cached")
	}
}

func TestCache_DeleteClear(t *testing.T) {
	c, _ := newTestCache(DefaultConfig())
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Delete() did not remove the entry")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear() = %d", c.Len())
	}
}
