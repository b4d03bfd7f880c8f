package client

import (
	"context"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/rmax-ai/partnermap/pkg/fixture"
	"github.com/rmax-ai/partnermap/pkg/model"
)

// FixtureClient serves every operation from an in-memory fixture store.
// A cancelled context is honoured before the store is touched.
type FixtureClient struct {
	store *fixture.Store
}

var _ API = (*FixtureClient)(nil)

func NewFixtureClient(store *fixture.Store) *FixtureClient {
	return &FixtureClient{store: store}
}

// Store exposes the backing fixture, e.g. for serving it over HTTP.
func (f *FixtureClient) Store() *fixture.Store {
	return f.store
}

func serve[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		observe(op, SourceFixture, err)
		return zero, err
	}
	v, err := fn()
	observe(op, SourceFixture, err)
	return v, err
}

func serveValue[T any](ctx context.Context, op string, fn func() T) (T, error) {
	return serve(ctx, op, func() (T, error) { return fn(), nil })
}

// --- Partners ---

func (f *FixtureClient) ListPartners(ctx context.Context) ([]model.Partner, error) {
	return serveValue(ctx, "partners.list", f.store.Partners)
}

func (f *FixtureClient) PartnersGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error) {
	return serveValue(ctx, "partners.geojson", f.store.PartnersGeoJSON)
}

func (f *FixtureClient) GetPartner(ctx context.Context, id string) (model.Partner, error) {
	return serve(ctx, "partners.get", func() (model.Partner, error) { return f.store.Partner(id) })
}

func (f *FixtureClient) CreatePartner(ctx context.Context, in model.PartnerInput) (model.Partner, error) {
	return serve(ctx, "partners.create", func() (model.Partner, error) { return f.store.CreatePartner(in) })
}

func (f *FixtureClient) UpdatePartner(ctx context.Context, id string, in model.PartnerInput) (model.Partner, error) {
	return serve(ctx, "partners.update", func() (model.Partner, error) { return f.store.UpdatePartner(id, in) })
}

func (f *FixtureClient) DeletePartner(ctx context.Context, id string) error {
	_, err := serve(ctx, "partners.delete", func() (struct{}, error) { return struct{}{}, f.store.DeletePartner(id) })
	return err
}

func (f *FixtureClient) ApprovePartner(ctx context.Context, id string) (model.ApprovalResult, error) {
	return serve(ctx, "partners.approve", func() (model.ApprovalResult, error) { return f.store.ApprovePartner(id) })
}

// --- Services ---

func (f *FixtureClient) ListServices(ctx context.Context, partnerID string) ([]model.Service, error) {
	return serveValue(ctx, "services.list", func() []model.Service { return f.store.Services(partnerID) })
}

func (f *FixtureClient) ServiceCategories(ctx context.Context) (model.ServiceCategories, error) {
	return serveValue(ctx, "services.categories", f.store.ServiceCategories)
}

func (f *FixtureClient) CreateService(ctx context.Context, in model.ServiceInput) (model.Service, error) {
	return serve(ctx, "services.create", func() (model.Service, error) { return f.store.CreateService(in) })
}

// --- Metrics ---

func (f *FixtureClient) ListMetrics(ctx context.Context, filter model.MetricsFilter) ([]model.PartnerMetrics, error) {
	return serveValue(ctx, "metrics.list", func() []model.PartnerMetrics { return f.store.Metrics(filter) })
}

func (f *FixtureClient) MetricsSummary(ctx context.Context) (model.MetricsSummary, error) {
	return serveValue(ctx, "metrics.summary", f.store.MetricsSummary)
}

func (f *FixtureClient) MetricsTimeseries(ctx context.Context, metricType model.MetricType, partnerID string) ([]model.TimeseriesPoint, error) {
	return serveValue(ctx, "metrics.timeseries", func() []model.TimeseriesPoint {
		return f.store.MetricsTimeseries(metricType, partnerID)
	})
}

func (f *FixtureClient) CreateMetrics(ctx context.Context, in model.MetricsInput) (model.PartnerMetrics, error) {
	return serve(ctx, "metrics.create", func() (model.PartnerMetrics, error) { return f.store.CreateMetrics(in) })
}

// --- Network ---

func (f *FixtureClient) NetworkGraph(ctx context.Context) (model.NetworkGraph, error) {
	return serveValue(ctx, "network.graph", f.store.NetworkGraph)
}

func (f *FixtureClient) NetworkAnalysis(ctx context.Context) (model.NetworkAnalysis, error) {
	return serveValue(ctx, "network.analysis", f.store.NetworkAnalysis)
}

func (f *FixtureClient) PartnerConnections(ctx context.Context, id string) (model.PartnerConnections, error) {
	return serve(ctx, "network.connections", func() (model.PartnerConnections, error) { return f.store.PartnerConnections(id) })
}

func (f *FixtureClient) CreateEdge(ctx context.Context, in model.EdgeInput) (model.NetworkEdge, error) {
	return serve(ctx, "network.create_edge", func() (model.NetworkEdge, error) { return f.store.CreateEdge(in) })
}

// --- Disaster ---

func (f *FixtureClient) DisasterCapabilities(ctx context.Context) ([]model.DisasterCapability, error) {
	return serveValue(ctx, "disaster.capabilities", f.store.DisasterCapabilities)
}

func (f *FixtureClient) CapabilitiesSummary(ctx context.Context) (model.CapabilitiesSummary, error) {
	return serveValue(ctx, "disaster.capabilities_summary", f.store.CapabilitiesSummary)
}

func (f *FixtureClient) DisasterStatuses(ctx context.Context) ([]model.DisasterStatus, error) {
	return serveValue(ctx, "disaster.status", f.store.DisasterStatuses)
}

func (f *FixtureClient) ActiveEvents(ctx context.Context) (model.ActiveEvents, error) {
	return serveValue(ctx, "disaster.events", f.store.ActiveEvents)
}

func (f *FixtureClient) DisasterDashboard(ctx context.Context) (model.DisasterDashboard, error) {
	return serveValue(ctx, "disaster.dashboard", f.store.DisasterDashboard)
}

func (f *FixtureClient) CreateDisasterStatus(ctx context.Context, in model.StatusInput) (model.DisasterStatus, error) {
	return serve(ctx, "disaster.create_status", func() (model.DisasterStatus, error) { return f.store.CreateDisasterStatus(in) })
}

// --- Search ---

func (f *FixtureClient) SearchPartners(ctx context.Context, params model.SearchParams) (model.SearchResult, error) {
	return serveValue(ctx, "search.partners", func() model.SearchResult { return f.store.SearchPartners(params) })
}

func (f *FixtureClient) SearchNearby(ctx context.Context, lat, lng, radiusMiles float64) (model.NearbyResult, error) {
	return serveValue(ctx, "search.nearby", func() model.NearbyResult { return f.store.SearchNearby(lat, lng, radiusMiles) })
}

func (f *FixtureClient) SearchServices(ctx context.Context) (model.ServiceSearchResult, error) {
	return serveValue(ctx, "search.services", f.store.SearchServices)
}

// --- Analysis ---

func (f *FixtureClient) Coverage(ctx context.Context) (model.Coverage, error) {
	return serveValue(ctx, "analysis.coverage", f.store.Coverage)
}

func (f *FixtureClient) Gaps(ctx context.Context) (model.GapAnalysis, error) {
	return serveValue(ctx, "analysis.gaps", f.store.Gaps)
}

func (f *FixtureClient) Equity(ctx context.Context) (model.EquityAssessment, error) {
	return serveValue(ctx, "analysis.equity", f.store.Equity)
}

func (f *FixtureClient) ImpactSummary(ctx context.Context) (model.ImpactSummary, error) {
	return serveValue(ctx, "analysis.impact", f.store.ImpactSummary)
}

func (f *FixtureClient) ReadinessScore(ctx context.Context) (model.ReadinessScore, error) {
	return serveValue(ctx, "analysis.readiness", f.store.ReadinessScore)
}

func (f *FixtureClient) Summarize(ctx context.Context, req model.SummarizeRequest) (model.SummarizeResponse, error) {
	return serveValue(ctx, "analysis.summarize", func() model.SummarizeResponse { return f.store.Summarize(req) })
}
