// Package store holds cached query results keyed by slash-separated paths.
// Values are opaque bytes (JSON in practice) so the same contract can be
// served from process memory or from Redis.
package store

import (
	"sort"
	"strings"
	"sync"
)

// ResultStore is the backing map for the query cache.
//
// Every key has a generation: the sum of the invalidation counters of the
// key and each of its prefixes. Invalidate bumps one counter, so the
// generation of every key under the prefix grows. A writer that read the
// generation before fetching uses SetIfGeneration so a result fetched before
// an invalidation is never stored after it. Generations live next to the
// values, so processes sharing a store see each other's invalidations.
type ResultStore interface {
	// Get returns the stored value for key.
	Get(key string) ([]byte, bool)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte)

	// Generation returns the current generation of key.
	Generation(key string) uint64

	// SetIfGeneration stores value under key only while the generation of
	// key still equals gen. It reports whether the value was stored.
	SetIfGeneration(key string, gen uint64, value []byte) bool

	// Invalidate bumps the generation of prefix, then removes every key
	// that lies under it and returns them.
	Invalidate(prefix string) []string

	// Keys lists stored keys in lexical order.
	Keys() []string

	// Clear removes every key and invalidates any write still pending.
	Clear()
}

// UnderPrefix reports whether key equals prefix or starts with prefix
// followed by a segment separator. The empty prefix matches everything.
func UnderPrefix(key, prefix string) bool {
	if prefix == "" || key == prefix {
		return true
	}
	return strings.HasPrefix(key, prefix+"/")
}

// Ancestors lists the prefixes key lies under, from the empty prefix down
// to key itself.
func Ancestors(key string) []string {
	out := []string{""}
	if key == "" {
		return out
	}
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			out = append(out, key[:i])
		}
	}
	return append(out, key)
}

// MemoryStore implements ResultStore using an in-memory map.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	gens    map[string]uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte), gens: make(map[string]uint64)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

func (s *MemoryStore) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), value...)
}

func (s *MemoryStore) generationLocked(key string) uint64 {
	var gen uint64
	for _, p := range Ancestors(key) {
		gen += s.gens[p]
	}
	return gen
}

func (s *MemoryStore) Generation(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generationLocked(key)
}

func (s *MemoryStore) SetIfGeneration(key string, gen uint64, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generationLocked(key) != gen {
		return false
	}
	s.entries[key] = append([]byte(nil), value...)
	return true
}

func (s *MemoryStore) Invalidate(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[prefix]++
	var removed []string
	for key := range s.entries {
		if UnderPrefix(key, prefix) {
			delete(s.entries, key)
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	return removed
}

func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[""]++
	s.entries = make(map[string][]byte)
}
