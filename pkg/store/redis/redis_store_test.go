package redis

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rmax-ai/partnermap/pkg/store"
)

// RunResultStoreTests runs the shared suite against a ResultStore implementation
func RunResultStoreTests(t *testing.T, rs store.ResultStore) {
	t.Run("Set and Get", func(t *testing.T) {
		rs.Clear()

		value := []byte(`{"count":12}`)
		rs.Set("partners/list", value)

		got, ok := rs.Get("partners/list")
		if !ok {
			t.Fatal("Expected to find cached value")
		}
		if string(got) != string(value) {
			t.Errorf("Get() = %s, want %s", got, value)
		}
	})

	t.Run("Get non-existent", func(t *testing.T) {
		rs.Clear()
		if _, ok := rs.Get("partners/missing"); ok {
			t.Error("Expected not to find non-existent key")
		}
	})

	t.Run("Set replaces", func(t *testing.T) {
		rs.Clear()
		rs.Set("network/graph", []byte(`1`))
		rs.Set("network/graph", []byte(`2`))

		got, _ := rs.Get("network/graph")
		if string(got) != "2" {
			t.Errorf("Get() = %s, want 2", got)
		}
		if keys := rs.Keys(); len(keys) != 1 {
			t.Errorf("Keys() = %v, want one key", keys)
		}
	})

	t.Run("Invalidate matches whole segments", func(t *testing.T) {
		rs.Clear()
		for _, k := range []string{"partners", "partners/list", "partners/geojson", "partnership/x", "search/partners/q=food"} {
			rs.Set(k, []byte(`{}`))
		}

		removed := rs.Invalidate("partners")
		want := []string{"partners", "partners/geojson", "partners/list"}
		if !reflect.DeepEqual(removed, want) {
			t.Errorf("Invalidate() = %v, want %v", removed, want)
		}

		keys := rs.Keys()
		wantKeys := []string{"partnership/x", "search/partners/q=food"}
		if !reflect.DeepEqual(keys, wantKeys) {
			t.Errorf("Keys() after delete = %v, want %v", keys, wantKeys)
		}

		if removed := rs.Invalidate("disaster"); len(removed) != 0 {
			t.Errorf("Invalidate(disaster) = %v, want none", removed)
		}
	})

	t.Run("Generation guards writes", func(t *testing.T) {
		rs.Clear()

		gen := rs.Generation("partners/list")
		if !rs.SetIfGeneration("partners/list", gen, []byte(`1`)) {
			t.Fatal("SetIfGeneration at current generation was rejected")
		}

		rs.Invalidate("partnership")
		rs.Invalidate("disaster")
		if got := rs.Generation("partners/list"); got != gen {
			t.Errorf("unrelated invalidation moved generation %d -> %d", gen, got)
		}

		rs.Invalidate("partners")
		if rs.SetIfGeneration("partners/list", gen, []byte(`2`)) {
			t.Error("write from before the invalidation was stored")
		}
		if _, ok := rs.Get("partners/list"); ok {
			t.Error("stale write is visible")
		}

		next := rs.Generation("partners/list")
		if next <= gen {
			t.Errorf("generation %d did not grow past %d", next, gen)
		}
		if !rs.SetIfGeneration("partners/list", next, []byte(`3`)) {
			t.Fatal("write at the new generation was rejected")
		}
		if got, _ := rs.Get("partners/list"); string(got) != "3" {
			t.Errorf("Get() = %s, want 3", got)
		}
		if keys := rs.Keys(); !reflect.DeepEqual(keys, []string{"partners/list"}) {
			t.Errorf("Keys() = %v", keys)
		}
	})

	t.Run("Clear invalidates pending writes", func(t *testing.T) {
		gen := rs.Generation("metrics/summary")
		rs.Clear()
		if rs.SetIfGeneration("metrics/summary", gen, []byte(`{}`)) {
			t.Error("write from before Clear was stored")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		rs.Set("metrics/summary", []byte(`{}`))
		rs.Clear()

		if keys := rs.Keys(); len(keys) != 0 {
			t.Errorf("Expected no keys after clear, got %v", keys)
		}
		if _, ok := rs.Get("metrics/summary"); ok {
			t.Error("Expected key to be gone after clear")
		}
	})

	t.Run("Concurrent Set", func(t *testing.T) {
		rs.Clear()

		const numGoroutines = 10
		var wg sync.WaitGroup
		wg.Add(numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func(i int) {
				defer wg.Done()
				rs.Set(fmt.Sprintf("services/partner=%d", i), []byte(`[]`))
			}(i)
		}
		wg.Wait()

		if keys := rs.Keys(); len(keys) != numGoroutines {
			t.Errorf("Keys() = %d entries, want %d", len(keys), numGoroutines)
		}
	})
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisResultStore(t *testing.T) {
	_, client := newMiniredis(t)
	RunResultStoreTests(t, NewRedisResultStore(client, 0))
}

func TestMemoryStore(t *testing.T) {
	RunResultStoreTests(t, store.NewMemoryStore())
}

func TestRedisResultStore_TTL(t *testing.T) {
	mr, client := newMiniredis(t)
	rs := NewRedisResultStore(client, time.Minute)

	rs.Set("disaster/dashboard", []byte(`{}`))
	if ttl := mr.TTL(keyPrefix + "disaster/dashboard"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := rs.Get("disaster/dashboard"); ok {
		t.Error("Expected expired entry to miss")
	}
	if keys := rs.Keys(); len(keys) != 0 {
		t.Errorf("Keys() = %v, want expired entry skipped", keys)
	}
}

func TestRedisResultStore_ServerDown(t *testing.T) {
	mr, client := newMiniredis(t)
	rs := NewRedisResultStore(client, 0)
	rs.Set("partners/list", []byte(`[]`))
	mr.Close()

	if _, ok := rs.Get("partners/list"); ok {
		t.Error("Expected miss when redis is unreachable")
	}
	if removed := rs.Invalidate("partners"); removed != nil {
		t.Errorf("Invalidate() = %v, want nil", removed)
	}
	if rs.SetIfGeneration("partners/list", rs.Generation("partners/list"), []byte(`[]`)) {
		t.Error("SetIfGeneration succeeded with redis down")
	}
}

func TestRedisResultStore_GenerationsAreShared(t *testing.T) {
	mr, _ := newMiniredis(t)
	a := NewRedisResultStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	b := NewRedisResultStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)

	gen := a.Generation("partners/list")
	b.Invalidate("partners")
	if a.SetIfGeneration("partners/list", gen, []byte(`"old-snapshot"`)) {
		t.Fatal("write begun before another store's invalidation was stored")
	}
	if _, ok := b.Get("partners/list"); ok {
		t.Error("other store reads the pre-invalidation snapshot")
	}

	if !a.SetIfGeneration("partners/list", a.Generation("partners/list"), []byte(`"fresh"`)) {
		t.Fatal("write at the shared generation was rejected")
	}
	if got, _ := b.Get("partners/list"); string(got) != `"fresh"` {
		t.Errorf("b.Get() = %s, want fresh", got)
	}
	if ttl := mr.TTL(keyPrefix + "partners/list"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}
}
