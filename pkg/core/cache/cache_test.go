package cache

import (
	"errors"
	"testing"
	"time"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
)

func newTestCache(t *testing.T, cfg Config) *Cache {
	t.Helper()
	c := New(cfg)
	t.Cleanup(c.Close)
	return c
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) should miss")
	}

	hits, misses, rate := c.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("Stats() = %d, %d, %v", hits, misses, rate)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	c.SetWithTTL("short", "x", 10*time.Millisecond)
	c.SetWithTTL("forever", "y", 0)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry returned")
	}
	if _, ok := c.Get("forever"); !ok {
		t.Error("entry without TTL expired")
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newTestCache(t, Config{MaxItems: 2})

	c.Set("a", 1)
	time.Sleep(time.Millisecond)
	c.Set("b", 2)
	time.Sleep(time.Millisecond)
	c.Get("a")
	time.Sleep(time.Millisecond)
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry b was kept")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry a was evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestCache_OverwriteDoesNotEvict(t *testing.T) {
	c := newTestCache(t, Config{MaxItems: 2})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3)

	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
	if v, _ := c.Get("a"); v != 3 {
		t.Errorf("Get(a) = %v, want 3", v)
	}
}

func TestCache_GetOrSet(t *testing.T) {
	c := newTestCache(t, DefaultConfig())

	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return "v", nil
	}
	c.GetOrSet("k", fn)
	c.GetOrSet("k", fn)
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}

	_, err := c.GetOrSet("bad", func() (interface{}, error) { return nil, errors.New("nope") })
	if err == nil {
		t.Error("GetOrSet() should return the error")
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("error result was cached")
	}
}

func TestCache_ClearDelete(t *testing.T) {
	c := newTestCache(t, DefaultConfig())
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if c.Size() != 1 {
		t.Errorf("Size() after Delete = %d", c.Size())
	}
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d", c.Size())
	}
	c.Close()
	c.Close()
}

func TestPredicateCache(t *testing.T) {
	pc := NewPredicateCache(DefaultConfig())
	defer pc.Close()

	first, err := pc.Compile("value % 2 == 0")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	second, err := pc.Compile("value % 2 == 0")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if first != second {
		t.Error("second Compile() did not hit the cache")
	}

	if _, err := pc.Compile("value +"); !mdwerror.HasCode(err, mdwerror.CodeExpressionError) {
		t.Errorf("Compile() error = %v, want EXPRESSION_ERROR", err)
	}

	stats := pc.Stats()
	if stats["size"] != 1 {
		t.Errorf("size = %v, want 1", stats["size"])
	}
	if stats["hits"] != int64(1) {
		t.Errorf("hits = %v, want 1", stats["hits"])
	}
}

func TestPredicateKey(t *testing.T) {
	if PredicateKey("a") == PredicateKey("b") {
		t.Error("different sources share a key")
	}
	if len(PredicateKey("a")) != len("expr:")+32 {
		t.Errorf("PredicateKey() = %q", PredicateKey("a"))
	}
}
