package cache

import (
	"sync"
	"testing"
)

func TestGetSet(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)

	if _, ok := c.Get("missing"); ok {
		t.Error("empty cache returned a value")
	}
	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("overwrite: Get(a) = %d, want 10", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len after overwrite = %d, want 2", c.Len())
	}
}

func TestGetOrCreate(t *testing.T) {
	c := NewSharded[uint64, string](8, Uint64Hasher)
	calls := 0
	create := func() string {
		calls++
		return "built"
	}

	if v := c.GetOrCreate(7, create); v != "built" {
		t.Errorf("first call = %q", v)
	}
	if v := c.GetOrCreate(7, create); v != "built" {
		t.Errorf("second call = %q", v)
	}
	if calls != 1 {
		t.Errorf("create ran %d times, want 1", calls)
	}
}

func TestDelete(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("a", 1)
	if !c.Delete("a") {
		t.Error("Delete(a) = false for present key")
	}
	if c.Delete("a") {
		t.Error("Delete(a) = true for absent key")
	}
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still resolves")
	}
}

func TestClear(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestEviction(t *testing.T) {
	// Identity-hashed keys that are multiples of ShardCount all land in
	// shard zero, making per-shard eviction deterministic.
	c := NewSharded[uint64, int](2, Uint64Hasher)
	c.Set(0*ShardCount, 0)
	c.Set(1*ShardCount, 1)
	c.Set(2*ShardCount, 2) // evicts key 0

	if _, ok := c.Get(0); ok {
		t.Error("oldest entry survived eviction")
	}
	if _, ok := c.Get(1 * ShardCount); !ok {
		t.Error("recent entry evicted")
	}
	if st := c.Stats(); st.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", st.Evictions)
	}
}

func TestEvictionRespectsRecency(t *testing.T) {
	c := NewSharded[uint64, int](2, Uint64Hasher)
	c.Set(0*ShardCount, 0)
	c.Set(1*ShardCount, 1)
	c.Get(0) // refresh key 0; key ShardCount is now oldest
	c.Set(2*ShardCount, 2)

	if _, ok := c.Get(0); !ok {
		t.Error("refreshed entry evicted")
	}
	if _, ok := c.Get(1 * ShardCount); ok {
		t.Error("least recently used entry survived")
	}
}

func TestStats(t *testing.T) {
	c := NewSharded[string, int](8, StringHasher)
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("nope")

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.HitRate < 0.66 || st.HitRate > 0.67 {
		t.Errorf("HitRate = %g", st.HitRate)
	}
	if st.Capacity != 8*ShardCount {
		t.Errorf("Capacity = %d", st.Capacity)
	}
}

func TestDefaultCapacity(t *testing.T) {
	c := NewSharded[string, int](0, StringHasher)
	if st := c.Stats(); st.Capacity != DefaultCapacity*ShardCount {
		t.Errorf("Capacity = %d, want default", st.Capacity)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewSharded[uint64, int](64, Uint64Hasher)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := uint64(0); i < 500; i++ {
				c.Set(i, int(i))
				c.Get(i)
				c.GetOrCreate(i+1000, func() int { return int(i) })
			}
		}(g)
	}
	wg.Wait()
}
