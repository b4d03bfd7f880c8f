package query

import (
	"context"
	"sync"
)

// Status is the lifecycle of an observed query.
type Status string

const (
	// StatusIdle means the query is disabled or has not been fetched. It is
	// distinct from a successful fetch that returned nothing.
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is what a view renders.
type Result[T any] struct {
	Key     Key
	Status  Status
	Data    T
	HasData bool
	Err     error
	// Version increases with every successful fetch.
	Version uint64
}

// FetchFunc loads the data for key. It must not read through a Client bound
// to the same Cache: both would wait on the same in-flight call.
type FetchFunc[T any] func(ctx context.Context, key Key) (T, error)

type options struct {
	enabled  bool
	onChange func()
}

type Option func(*options)

// Enabled sets whether the query fetches. Disabled queries stay idle.
func Enabled(enabled bool) Option {
	return func(o *options) { o.enabled = enabled }
}

// OnChange is called, outside any lock, after every result change.
func OnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

// Query binds one view to one key at a time. Results that arrive after the
// key changed, the query was disabled, or Close was called are discarded.
// When the cache invalidates the bound key, an enabled query refetches.
type Query[T any] struct {
	cache *Cache
	fetch FetchFunc[T]

	ctx    context.Context
	cancel context.CancelFunc
	unsub  func()

	mu       sync.Mutex
	key      Key
	enabled  bool
	closed   bool
	gen      uint64
	res      Result[T]
	onChange func()
}

// New creates a query for key and starts fetching if it is enabled.
func New[T any](c *Cache, key Key, fetch FetchFunc[T], opts ...Option) *Query[T] {
	o := options{enabled: true}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Query[T]{
		cache:    c,
		fetch:    fetch,
		ctx:      ctx,
		cancel:   cancel,
		key:      key,
		enabled:  o.enabled,
		onChange: o.onChange,
		res:      Result[T]{Key: key, Status: StatusIdle},
	}
	q.unsub = c.onInvalidate(q.invalidated)

	q.mu.Lock()
	started := q.startLocked()
	q.mu.Unlock()
	if started {
		q.notify()
	}
	return q
}

// Result returns the current state.
func (q *Query[T]) Result() Result[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.res
}

// SetKey rebinds the query. Data for the previous key is no longer shown.
func (q *Query[T]) SetKey(key Key) {
	q.mu.Lock()
	if q.closed || q.key.Equal(key) {
		q.mu.Unlock()
		return
	}
	q.key = key
	q.gen++
	q.res = Result[T]{Key: key, Status: StatusIdle}
	q.startLocked()
	q.mu.Unlock()
	q.notify()
}

// SetEnabled turns fetching on or off. Disabling discards any fetch in
// flight and returns the query to idle.
func (q *Query[T]) SetEnabled(enabled bool) {
	q.mu.Lock()
	if q.closed || q.enabled == enabled {
		q.mu.Unlock()
		return
	}
	q.enabled = enabled
	q.gen++
	if enabled {
		q.startLocked()
	} else {
		q.res = Result[T]{Key: q.key, Status: StatusIdle}
	}
	q.mu.Unlock()
	q.notify()
}

// Refetch fetches the current key again, keeping the shown data until the
// new result arrives.
func (q *Query[T]) Refetch() {
	q.mu.Lock()
	if q.closed || !q.enabled {
		q.mu.Unlock()
		return
	}
	q.gen++
	q.startLocked()
	q.mu.Unlock()
	q.notify()
}

// Close stops the query. Later results are dropped and OnChange is not called again.
func (q *Query[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.gen++
	q.mu.Unlock()
	q.unsub()
	q.cancel()
}

func (q *Query[T]) invalidated(prefixes []string) {
	q.mu.Lock()
	key := q.key
	q.mu.Unlock()
	for _, p := range prefixes {
		if key.Under(p) {
			q.Refetch()
			return
		}
	}
}

// startLocked launches a fetch for the current key. q.mu must be held.
func (q *Query[T]) startLocked() bool {
	if q.closed || !q.enabled {
		return false
	}
	gen := q.gen
	key := q.key
	q.res.Status = StatusLoading
	q.res.Err = nil

	go func() {
		v, err := Fetch(q.ctx, q.cache, key, func(ctx context.Context) (T, error) {
			return q.fetch(ctx, key)
		})

		q.mu.Lock()
		if q.closed || q.gen != gen {
			q.mu.Unlock()
			return
		}
		if err != nil {
			// previous data stays on screen
			q.res.Status = StatusError
			q.res.Err = err
		} else {
			q.res = Result[T]{Key: key, Status: StatusSuccess, Data: v, HasData: true, Version: q.res.Version + 1}
		}
		q.mu.Unlock()
		q.notify()
	}()
	return true
}

func (q *Query[T]) notify() {
	q.mu.Lock()
	fn, closed := q.onChange, q.closed
	q.mu.Unlock()
	if fn != nil && !closed {
		fn()
	}
}
