// Package query coordinates data fetches for page views: results are cached
// by key, concurrent fetches of one key share a single call, and successful
// mutations invalidate whole key families.
package query

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rmax-ai/partnermap/pkg/store"
)

// Key identifies a cached result: operation name segments followed by the
// parameters that select the result.
type Key []string

func (k Key) String() string { return strings.Join(k, "/") }

func (k Key) Equal(other Key) bool { return k.String() == other.String() }

// Under reports whether k lies under prefix by whole segments.
func (k Key) Under(prefix string) bool { return store.UnderPrefix(k.String(), prefix) }

// Cache holds fetched results in a ResultStore.
type Cache struct {
	store store.ResultStore
	group singleflight.Group

	mu      sync.Mutex
	nextSub int
	subs    map[int]func(prefixes []string)
}

// NewCache returns a cache backed by rs, or by process memory when rs is nil.
func NewCache(rs store.ResultStore) *Cache {
	if rs == nil {
		rs = store.NewMemoryStore()
	}
	return &Cache{
		store: rs,
		subs:  make(map[int]func([]string)),
	}
}

// Keys lists the keys currently cached.
func (c *Cache) Keys() []string {
	return c.store.Keys()
}

// Invalidate drops every cached result under any of prefixes. Fetches that
// are still in flight for those keys will not populate the cache, in this
// process or any other sharing the store, and later callers start a fresh
// fetch instead of joining them. Listeners registered by observers are
// called after the entries are gone.
func (c *Cache) Invalidate(prefixes ...string) {
	if len(prefixes) == 0 {
		return
	}
	for _, p := range prefixes {
		c.store.Invalidate(p)
		InvalidationsTotal.WithLabelValues(p).Inc()
	}
	c.mu.Lock()
	listeners := make([]func([]string), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(prefixes)
	}
}

func (c *Cache) onInvalidate(fn func(prefixes []string)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Fetch returns the cached result for key, or runs fn to produce it. Callers
// that ask for the same key while fn is running wait for that call instead of
// starting their own. Only successful results are cached. fn runs detached
// from ctx cancellation so one caller leaving does not fail the others; a
// caller whose ctx ends stops waiting and gets ctx.Err().
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	k := key.String()

	if data, ok := c.store.Get(k); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			CacheTotal.WithLabelValues("hit").Inc()
			return v, nil
		}
	}

	gen := c.store.Generation(k)
	flight := c.group.DoChan(k+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(v); err == nil {
			c.store.SetIfGeneration(k, gen, data)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-flight:
		if res.Shared {
			CacheTotal.WithLabelValues("shared").Inc()
		} else {
			CacheTotal.WithLabelValues("miss").Inc()
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

// Mutate runs fn and, if it succeeds, invalidates prefixes before returning,
// so reads issued after Mutate returns never see the pre-mutation cache.
func Mutate[T any](ctx context.Context, c *Cache, fn func(context.Context) (T, error), prefixes ...string) (T, error) {
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	c.Invalidate(prefixes...)
	return v, nil
}
