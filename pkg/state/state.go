// Package state is the session-scoped UI state container. It is created once
// per running application, never persisted, and mutated only through its
// setters. Subscribers declare which fields they depend on and are notified
// after the change is visible to readers.
package state

import (
	"fmt"
	"sync"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// Mode is the operating context the UI emphasises.
type Mode string

const (
	ModeSteady   Mode = "steady"
	ModeDisaster Mode = "disaster"
)

func (m Mode) Valid() bool { return m == ModeSteady || m == ModeDisaster }

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeDisaster {
		return ModeSteady
	}
	return ModeDisaster
}

// Label is the human readable mode name.
func (m Mode) Label() string {
	if m == ModeDisaster {
		return "Disaster Mode"
	}
	return "Steady State"
}

// Field identifies one state field for scoped subscriptions.
type Field uint16

const (
	FieldMode Field = 1 << iota
	FieldSelectedPartner
	FieldMapCenter
	FieldMapZoom
	FieldServiceFilter
	FieldSearchQuery
	FieldSidebarOpen
	FieldActiveLayer

	FieldAll = FieldMode | FieldSelectedPartner | FieldMapCenter | FieldMapZoom |
		FieldServiceFilter | FieldSearchQuery | FieldSidebarOpen | FieldActiveLayer
)

// Defaults applied by New and Reset.
const (
	DefaultZoom  = 8.0
	DefaultLayer = "partners"
)

// DefaultCenter is the map centre as (lng, lat).
var DefaultCenter = [2]float64{-122.2, 37.8}

// Snapshot is a consistent copy of every field.
type Snapshot struct {
	Mode            Mode
	SelectedPartner *model.PartnerRef
	MapCenter       [2]float64
	MapZoom         float64
	ServiceFilter   model.ServiceCategory
	SearchQuery     string
	SidebarOpen     bool
	ActiveLayer     string
}

func defaults() Snapshot {
	return Snapshot{
		Mode:        ModeSteady,
		MapCenter:   DefaultCenter,
		MapZoom:     DefaultZoom,
		SidebarOpen: true,
		ActiveLayer: DefaultLayer,
	}
}

// Listener receives the fields that changed and the snapshot after the change.
type Listener func(changed Field, s Snapshot)

type subscription struct {
	fields Field
	fn     Listener
}

// Store holds the UI state.
type Store struct {
	mu     sync.RWMutex
	s      Snapshot
	nextID int
	subs   map[int]subscription
}

// New returns a store with every field at its default.
func New() *Store {
	return &Store{s: defaults(), subs: make(map[int]subscription)}
}

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return cloneSnapshot(st.s)
}

func cloneSnapshot(s Snapshot) Snapshot {
	if s.SelectedPartner != nil {
		ref := *s.SelectedPartner
		s.SelectedPartner = &ref
	}
	return s
}

func (st *Store) Mode() Mode {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.Mode
}

// SelectedPartner returns the selected partner, or nil when none is selected.
func (st *Store) SelectedPartner() *model.PartnerRef {
	return st.Snapshot().SelectedPartner
}

// Subscribe registers fn for changes to any of fields. The returned func
// removes the subscription.
func (st *Store) Subscribe(fields Field, fn Listener) (unsubscribe func()) {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.subs[id] = subscription{fields: fields, fn: fn}
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		delete(st.subs, id)
		st.mu.Unlock()
	}
}

// update applies fn under the write lock and notifies interested listeners
// once the lock is released.
func (st *Store) update(fn func(s *Snapshot) Field) {
	st.mu.Lock()
	changed := fn(&st.s)
	if changed == 0 {
		st.mu.Unlock()
		return
	}
	snap := cloneSnapshot(st.s)
	var targets []Listener
	for _, sub := range st.subs {
		if sub.fields&changed != 0 {
			targets = append(targets, sub.fn)
		}
	}
	st.mu.Unlock()

	for _, fn := range targets {
		fn(changed, snap)
	}
}

// SetMode replaces the mode.
func (st *Store) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("unknown mode %q", m)
	}
	st.update(func(s *Snapshot) Field {
		if s.Mode == m {
			return 0
		}
		s.Mode = m
		return FieldMode
	})
	return nil
}

// ToggleMode flips between steady and disaster and returns the new mode.
func (st *Store) ToggleMode() Mode {
	var next Mode
	st.update(func(s *Snapshot) Field {
		s.Mode = s.Mode.Toggle()
		next = s.Mode
		return FieldMode
	})
	return next
}

// SetSelectedPartner replaces the whole selection; nil clears it.
func (st *Store) SetSelectedPartner(ref *model.PartnerRef) {
	var stored *model.PartnerRef
	if ref != nil {
		c := *ref
		stored = &c
	}
	st.update(func(s *Snapshot) Field {
		if s.SelectedPartner == nil && stored == nil {
			return 0
		}
		s.SelectedPartner = stored
		return FieldSelectedPartner
	})
}

// SetMapCenter replaces the map centre given as (lng, lat).
func (st *Store) SetMapCenter(center [2]float64) error {
	lng, lat := center[0], center[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return fmt.Errorf("map center %v out of range", center)
	}
	st.update(func(s *Snapshot) Field {
		if s.MapCenter == center {
			return 0
		}
		s.MapCenter = center
		return FieldMapCenter
	})
	return nil
}

func (st *Store) SetMapZoom(zoom float64) {
	st.update(func(s *Snapshot) Field {
		if s.MapZoom == zoom {
			return 0
		}
		s.MapZoom = zoom
		return FieldMapZoom
	})
}

// SetServiceFilter replaces the category filter; "" means no filter.
func (st *Store) SetServiceFilter(c model.ServiceCategory) error {
	if c != "" && !c.Valid() {
		return fmt.Errorf("unknown service category %q", c)
	}
	st.update(func(s *Snapshot) Field {
		if s.ServiceFilter == c {
			return 0
		}
		s.ServiceFilter = c
		return FieldServiceFilter
	})
	return nil
}

func (st *Store) SetSearchQuery(q string) {
	st.update(func(s *Snapshot) Field {
		if s.SearchQuery == q {
			return 0
		}
		s.SearchQuery = q
		return FieldSearchQuery
	})
}

func (st *Store) SetSidebarOpen(open bool) {
	st.update(func(s *Snapshot) Field {
		if s.SidebarOpen == open {
			return 0
		}
		s.SidebarOpen = open
		return FieldSidebarOpen
	})
}

func (st *Store) SetActiveLayer(layer string) {
	st.update(func(s *Snapshot) Field {
		if s.ActiveLayer == layer {
			return 0
		}
		s.ActiveLayer = layer
		return FieldActiveLayer
	})
}

// Reset returns every field to its default, as a reload would.
func (st *Store) Reset() {
	st.update(func(s *Snapshot) Field {
		d := defaults()
		var changed Field
		if s.Mode != d.Mode {
			changed |= FieldMode
		}
		if s.SelectedPartner != nil {
			changed |= FieldSelectedPartner
		}
		if s.MapCenter != d.MapCenter {
			changed |= FieldMapCenter
		}
		if s.MapZoom != d.MapZoom {
			changed |= FieldMapZoom
		}
		if s.ServiceFilter != d.ServiceFilter {
			changed |= FieldServiceFilter
		}
		if s.SearchQuery != d.SearchQuery {
			changed |= FieldSearchQuery
		}
		if s.SidebarOpen != d.SidebarOpen {
			changed |= FieldSidebarOpen
		}
		if s.ActiveLayer != d.ActiveLayer {
			changed |= FieldActiveLayer
		}
		*s = d
		return changed
	})
}
