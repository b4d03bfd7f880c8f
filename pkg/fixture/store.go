// Package fixture holds the in-memory Northern California partner directory.
// It starts from a fixed seed and accepts mutations for the lifetime of the
// process; nothing is persisted.
package fixture

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/search"
)

// Store is a mutex-guarded directory. Every read returns a copy.
type Store struct {
	mu sync.RWMutex

	now   func() time.Time
	newID func() string

	partners     []model.Partner
	services     []model.Service
	categories   model.ServiceCategories
	edges        []model.NetworkEdge
	metrics      []model.PartnerMetrics
	summary      model.MetricsSummary
	capabilities []model.DisasterCapability
	statuses     []model.DisasterStatus
	dashboard    model.DisasterDashboard
	analysis     model.NetworkAnalysis
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the timestamp source used for created records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the id source used for created records.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New returns a store loaded with the seed directory.
func New(opts ...Option) *Store {
	ps := partners()
	s := &Store{
		now:          time.Now,
		newID:        uuid.NewString,
		partners:     ps,
		services:     services(),
		categories:   model.DefaultServiceCategories(),
		edges:        edges(),
		metrics:      []model.PartnerMetrics{},
		summary:      metricsSummary(),
		capabilities: []model.DisasterCapability{},
		statuses:     []model.DisasterStatus{},
		dashboard:    disasterDashboard(),
		analysis:     networkAnalysis(ps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Partners ---

// Partners returns active partners in insertion order.
func (s *Store) Partners() []model.Partner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

func (s *Store) activeLocked() []model.Partner {
	out := make([]model.Partner, 0, len(s.partners))
	for _, p := range s.partners {
		if p.IsActive {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Partner looks a partner up by id or partner_id, including soft-deleted ones.
func (s *Store) Partner(ref string) (model.Partner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(ref)
	if i < 0 {
		return model.Partner{}, fmt.Errorf("partner %q: %w", ref, model.ErrNotFound)
	}
	return s.partners[i].Clone(), nil
}

func (s *Store) indexLocked(ref string) int {
	for i, p := range s.partners {
		if p.Matches(ref) {
			return i
		}
	}
	return -1
}

// PartnersGeoJSON returns the map features of active partners.
func (s *Store) PartnersGeoJSON() *geojson.FeatureCollection {
	return model.PartnerFeatures(s.Partners())
}

// CreatePartner validates in and appends a pending partner.
func (s *Store) CreatePartner(in model.PartnerInput) (model.Partner, error) {
	if err := in.ValidateCreate(); err != nil {
		return model.Partner{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	now := s.now().UTC()
	p := model.Partner{
		ID:             id,
		PartnerID:      externalID(id),
		IsActive:       true,
		ApprovalStatus: model.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	in.ApplyTo(&p)
	s.partners = append(s.partners, p)
	return p.Clone(), nil
}

// externalID derives "PTR-XXXXXXXX" from the first 8 id characters.
func externalID(id string) string {
	hex := strings.ReplaceAll(id, "-", "")
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return "PTR-" + strings.ToUpper(hex)
}

// UpdatePartner applies the supplied fields of in to an existing partner.
func (s *Store) UpdatePartner(ref string, in model.PartnerInput) (model.Partner, error) {
	if err := in.ValidateUpdate(); err != nil {
		return model.Partner{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ref)
	if i < 0 {
		return model.Partner{}, fmt.Errorf("partner %q: %w", ref, model.ErrNotFound)
	}
	in.ApplyTo(&s.partners[i])
	s.partners[i].UpdatedAt = s.now().UTC()
	return s.partners[i].Clone(), nil
}

// DeletePartner soft-deletes a partner by clearing is_active.
func (s *Store) DeletePartner(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ref)
	if i < 0 {
		return fmt.Errorf("partner %q: %w", ref, model.ErrNotFound)
	}
	s.partners[i].IsActive = false
	s.partners[i].UpdatedAt = s.now().UTC()
	return nil
}

// ApprovePartner marks a partner approved.
func (s *Store) ApprovePartner(ref string) (model.ApprovalResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(ref)
	if i < 0 {
		return model.ApprovalResult{}, fmt.Errorf("partner %q: %w", ref, model.ErrNotFound)
	}
	s.partners[i].ApprovalStatus = model.ApprovalApproved
	s.partners[i].UpdatedAt = s.now().UTC()
	return model.ApprovalResult{Status: model.ApprovalApproved, PartnerID: s.partners[i].PartnerID}, nil
}

// --- Services ---

// Services lists services, optionally only those of one partner. The
// partner may be named by either identifier.
func (s *Store) Services(partnerRef string) []model.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id := partnerRef
	if i := s.indexLocked(partnerRef); i >= 0 {
		id = s.partners[i].ID
	}

	out := make([]model.Service, 0, len(s.services))
	for _, svc := range s.services {
		if partnerRef != "" && svc.PartnerID != id {
			continue
		}
		out = append(out, cloneService(svc))
	}
	return out
}

func cloneService(svc model.Service) model.Service {
	if svc.LanguagesOffered != nil {
		svc.LanguagesOffered = append([]string(nil), svc.LanguagesOffered...)
	}
	return svc
}

// ServiceCategories returns a copy of the category table.
func (s *Store) ServiceCategories() model.ServiceCategories {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(model.ServiceCategories, len(s.categories))
	for k, v := range s.categories {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// CreateService validates in against the category table and the directory.
func (s *Store) CreateService(in model.ServiceInput) (model.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := in.Validate(s.categories); err != nil {
		return model.Service{}, err
	}
	i := s.indexLocked(*in.PartnerID)
	if i < 0 {
		return model.Service{}, model.ValidationErrors{"partner_id": "Unknown partner"}
	}
	in.PartnerID = model.Ptr(s.partners[i].ID)

	svc := in.Build(s.newID())
	s.services = append(s.services, svc)
	return cloneService(svc), nil
}

// --- Metrics ---

// Metrics lists reported metrics matching filter.
func (s *Store) Metrics(filter model.MetricsFilter) []model.PartnerMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.PartnerMetrics, 0)
	for _, m := range s.metrics {
		if filter.PartnerID != "" && m.PartnerID != s.resolveLocked(filter.PartnerID) {
			continue
		}
		if filter.MetricType != "" && m.MetricType != filter.MetricType {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *Store) resolveLocked(ref string) string {
	if i := s.indexLocked(ref); i >= 0 {
		return s.partners[i].ID
	}
	return ref
}

// MetricsSummary returns the seeded aggregate with created reports folded in.
func (s *Store) MetricsSummary() model.MetricsSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(model.MetricsSummary, len(s.summary))
	for k, v := range s.summary {
		out[k] = v
	}
	return out
}

// MetricsTimeseries returns reported values of one type ordered by period start.
func (s *Store) MetricsTimeseries(metricType model.MetricType, partnerRef string) []model.TimeseriesPoint {
	ms := s.Metrics(model.MetricsFilter{PartnerID: partnerRef, MetricType: metricType})
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].ReportingPeriodStart.Before(ms[j].ReportingPeriodStart)
	})

	out := make([]model.TimeseriesPoint, 0, len(ms))
	for _, m := range ms {
		out = append(out, model.TimeseriesPoint{
			PeriodStart: m.ReportingPeriodStart,
			PeriodEnd:   m.ReportingPeriodEnd,
			Value:       m.MetricValue,
			PartnerID:   m.PartnerID,
		})
	}
	return out
}

// CreateMetrics records a metrics report and updates the summary.
func (s *Store) CreateMetrics(in model.MetricsInput) (model.PartnerMetrics, error) {
	if err := in.Validate(); err != nil {
		return model.PartnerMetrics{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(*in.PartnerID)
	if i < 0 {
		return model.PartnerMetrics{}, model.ValidationErrors{"partner_id": "Unknown partner"}
	}
	in.PartnerID = model.Ptr(s.partners[i].ID)

	m := in.Build(s.newID())
	s.metrics = append(s.metrics, m)

	agg := s.summary[m.MetricType]
	agg.Total += m.MetricValue
	agg.Count++
	agg.Average = agg.Total / float64(agg.Count)
	s.summary[m.MetricType] = agg
	return m, nil
}

// --- Network ---

// NetworkGraph projects active partners and the edges between them.
func (s *Store) NetworkGraph() model.NetworkGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := s.activeLocked()
	present := make(map[string]bool, len(active))
	g := model.NetworkGraph{
		Nodes: make([]model.GraphNode, 0, len(active)),
		Edges: make([]model.GraphEdge, 0, len(s.edges)),
	}
	for _, p := range active {
		present[p.ID] = true
		g.Nodes = append(g.Nodes, model.GraphNode{Data: model.GraphNodeData{
			ID:        p.ID,
			Label:     p.OrganizationName,
			Type:      string(p.OrganizationType),
			PartnerID: p.PartnerID,
		}})
	}
	for _, e := range s.edges {
		if !present[e.PartnerAID] || !present[e.PartnerBID] {
			continue
		}
		g.Edges = append(g.Edges, model.GraphEdge{Data: model.GraphEdgeData{
			ID:           e.ID,
			Source:       e.PartnerAID,
			Target:       e.PartnerBID,
			Relationship: e.RelationshipType,
			Strength:     e.RelationshipStrength,
			Context:      e.RelationshipContext,
		}})
	}
	g.Summary = model.GraphSummary{TotalNodes: len(g.Nodes), TotalEdges: len(g.Edges)}
	return g
}

// NetworkAnalysis returns the precomputed analysis. It is never recomputed.
func (s *Store) NetworkAnalysis() model.NetworkAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a := s.analysis
	a.NodeAnalysis = append([]model.NodeAnalysis(nil), a.NodeAnalysis...)
	a.Communities = append([]model.Community(nil), a.Communities...)
	a.IsolatedNodes = append([]string{}, a.IsolatedNodes...)
	a.KeyBridges = append([]model.KeyBridge(nil), a.KeyBridges...)
	return a
}

// PartnerConnections lists every edge touching the partner.
func (s *Store) PartnerConnections(ref string) (model.PartnerConnections, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(ref)
	if i < 0 {
		return model.PartnerConnections{}, fmt.Errorf("partner %q: %w", ref, model.ErrNotFound)
	}
	id := s.partners[i].ID

	conns := make([]model.NetworkEdge, 0)
	for _, e := range s.edges {
		if e.Touches(id) {
			conns = append(conns, e)
		}
	}
	return model.PartnerConnections{PartnerID: id, TotalConnections: len(conns), Connections: conns}, nil
}

// CreateEdge validates in and records a new relationship.
func (s *Store) CreateEdge(in model.EdgeInput) (model.NetworkEdge, error) {
	if err := in.Validate(); err != nil {
		return model.NetworkEdge{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	errs := model.ValidationErrors{}
	a, b := s.indexLocked(*in.PartnerAID), s.indexLocked(*in.PartnerBID)
	if a < 0 {
		errs["partner_a_id"] = "Unknown partner"
	}
	if b < 0 {
		errs["partner_b_id"] = "Unknown partner"
	}
	if len(errs) > 0 {
		return model.NetworkEdge{}, errs
	}
	if a == b {
		return model.NetworkEdge{}, model.ValidationErrors{"partner_b_id": "A partner cannot be connected to itself"}
	}
	in.PartnerAID = model.Ptr(s.partners[a].ID)
	in.PartnerBID = model.Ptr(s.partners[b].ID)

	e := in.Build(s.newID())
	s.edges = append(s.edges, e)
	return e, nil
}

// --- Disaster ---

func (s *Store) DisasterCapabilities() []model.DisasterCapability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.DisasterCapability{}, s.capabilities...)
}

func (s *Store) CapabilitiesSummary() model.CapabilitiesSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(model.CapabilitiesSummary, len(s.dashboard.CapabilitiesByType))
	for k, v := range s.dashboard.CapabilitiesByType {
		out[k] = v
	}
	return out
}

func (s *Store) DisasterStatuses() []model.DisasterStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.DisasterStatus{}, s.statuses...)
}

// ActiveEvents lists the seeded event followed by any other reported events.
func (s *Store) ActiveEvents() model.ActiveEvents {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{ActiveEvent: true}
	events := []string{ActiveEvent}
	for _, st := range s.statuses {
		if !seen[st.DisasterEventName] {
			seen[st.DisasterEventName] = true
			events = append(events, st.DisasterEventName)
		}
	}
	return model.ActiveEvents{ActiveEvents: events}
}

// DisasterDashboard returns the precomputed dashboard.
func (s *Store) DisasterDashboard() model.DisasterDashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := s.dashboard
	d.CapabilitiesByType = make(model.CapabilitiesSummary, len(s.dashboard.CapabilitiesByType))
	for k, v := range s.dashboard.CapabilitiesByType {
		d.CapabilitiesByType[k] = v
	}
	return d
}

// CreateDisasterStatus records an operational status report.
func (s *Store) CreateDisasterStatus(in model.StatusInput) (model.DisasterStatus, error) {
	if err := in.Validate(); err != nil {
		return model.DisasterStatus{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(*in.PartnerID)
	if i < 0 {
		return model.DisasterStatus{}, model.ValidationErrors{"partner_id": "Unknown partner"}
	}
	in.PartnerID = model.Ptr(s.partners[i].ID)

	st := in.Build(s.newID(), s.now().UTC())
	s.statuses = append(s.statuses, st)
	return st, nil
}

// --- Search ---

func (s *Store) SearchPartners(params model.SearchParams) model.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return search.Partners(s.activeLocked(), s.services, params)
}

func (s *Store) SearchNearby(lat, lng, radiusMiles float64) model.NearbyResult {
	return search.Nearby(s.Partners(), lat, lng, radiusMiles)
}

func (s *Store) SearchServices() model.ServiceSearchResult {
	return search.Services(s.Services(""))
}

// --- Analysis ---

func (s *Store) Coverage() model.Coverage { return coverage() }

func (s *Store) Gaps() model.GapAnalysis { return gaps() }

func (s *Store) Equity() model.EquityAssessment { return equity() }

func (s *Store) ReadinessScore() model.ReadinessScore { return readiness() }

func (s *Store) ImpactSummary() model.ImpactSummary {
	return model.ImpactSummary{Metrics: s.MetricsSummary()}
}

// Summarize returns the canned demo summary; no model is consulted.
func (s *Store) Summarize(req model.SummarizeRequest) model.SummarizeResponse {
	n := len(s.Partners())
	return model.SummarizeResponse{
		Summary: fmt.Sprintf("AI Summary (Demo Mode): Based on the Northern California partner network of %d organizations, "+
			"the network shows strong disaster coordination capabilities. Key insights: The Bay Area Disaster Relief Coalition "+
			"serves as a critical hub with highest betweenness centrality. Recommendations include expanding services in "+
			"high-SVI areas of East Oakland and increasing mental health support in fire-affected North Bay regions.", n),
		ContextUsed: req.Prompt,
	}
}
