// Package mapview is the partner marker layer of the map page. It turns the
// partner feature collection into markers, paints them according to the
// current mode and writes clicks back into the UI state.
package mapview

import (
	"sync"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/state"
)

const (
	SteadyFill   = "#ed1c24"
	DisasterFill = "#f97316"
	StrokeColor  = "#ffffff"
	MarkerRadius = 8
	StrokeWidth  = 2
)

// FillColor is the marker fill for mode.
func FillColor(m state.Mode) string {
	if m == state.ModeDisaster {
		return DisasterFill
	}
	return SteadyFill
}

// Paint is the layer style.
type Paint struct {
	Fill        string
	Stroke      string
	Radius      float64
	StrokeWidth float64
}

func paintFor(m state.Mode) Paint {
	return Paint{Fill: FillColor(m), Stroke: StrokeColor, Radius: MarkerRadius, StrokeWidth: StrokeWidth}
}

type Cursor string

const (
	CursorDefault Cursor = ""
	CursorPointer Cursor = "pointer"
)

// Marker is one placed partner.
type Marker struct {
	Ref model.PartnerRef
}

func (m Marker) Lng() float64 { return m.Ref.Longitude }
func (m Marker) Lat() float64 { return m.Ref.Latitude }

// Layer holds the markers and their paint. It repaints on mode changes
// without touching the marker data.
type Layer struct {
	st *state.Store

	mu       sync.RWMutex
	markers  []Marker
	paint    Paint
	cursor   Cursor
	onChange func()
	unsub    func()
}

// NewLayer creates a layer painted for the store's current mode and keeps it
// in sync with later mode changes until Close.
func NewLayer(st *state.Store) *Layer {
	l := &Layer{st: st, paint: paintFor(st.Mode())}
	l.unsub = st.Subscribe(state.FieldMode, func(_ state.Field, s state.Snapshot) {
		l.mu.Lock()
		l.paint = paintFor(s.Mode)
		fn := l.onChange
		l.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
	return l
}

// OnChange registers fn to run after a repaint.
func (l *Layer) OnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

func (l *Layer) Close() {
	if l.unsub != nil {
		l.unsub()
	}
}

// SetData replaces the markers with the point features of fc. Features that
// are not points or carry no partner id are skipped; the count of skipped
// features is returned.
func (l *Layer) SetData(fc *geojson.FeatureCollection) (skipped int) {
	var markers []Marker
	if fc != nil {
		markers = make([]Marker, 0, len(fc.Features))
		for _, f := range fc.Features {
			ref, ok := model.FeatureRef(f)
			if !ok {
				skipped++
				continue
			}
			markers = append(markers, Marker{Ref: ref})
		}
	}
	l.mu.Lock()
	l.markers = markers
	l.mu.Unlock()
	return skipped
}

func (l *Layer) Markers() []Marker {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Marker(nil), l.markers...)
}

func (l *Layer) Paint() Paint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.paint
}

func (l *Layer) Cursor() Cursor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cursor
}

func (l *Layer) marker(id string) (Marker, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, m := range l.markers {
		if m.Ref.ID == id {
			return m, true
		}
	}
	return Marker{}, false
}

// Click selects the partner behind the marker with id. It reports false,
// leaving the selection alone, when no such marker exists.
func (l *Layer) Click(id string) bool {
	m, ok := l.marker(id)
	if !ok {
		return false
	}
	ref := m.Ref
	l.st.SetSelectedPartner(&ref)
	return true
}

// Hover sets the pointer cursor while over a marker. Application state is
// not touched.
func (l *Layer) Hover(id string) {
	_, ok := l.marker(id)
	l.mu.Lock()
	if ok {
		l.cursor = CursorPointer
	} else {
		l.cursor = CursorDefault
	}
	l.mu.Unlock()
}

func (l *Layer) Leave() {
	l.mu.Lock()
	l.cursor = CursorDefault
	l.mu.Unlock()
}
