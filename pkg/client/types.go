package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/rmax-ai/partnermap/pkg/fixture"
	"github.com/rmax-ai/partnermap/pkg/model"
)

// API is one operation per domain action. Implementations never retry and
// never fall back to another source; failures are returned to the caller.
type API interface {
	// Partners
	ListPartners(ctx context.Context) ([]model.Partner, error)
	PartnersGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error)
	GetPartner(ctx context.Context, id string) (model.Partner, error)
	CreatePartner(ctx context.Context, in model.PartnerInput) (model.Partner, error)
	UpdatePartner(ctx context.Context, id string, in model.PartnerInput) (model.Partner, error)
	DeletePartner(ctx context.Context, id string) error
	ApprovePartner(ctx context.Context, id string) (model.ApprovalResult, error)

	// Services
	ListServices(ctx context.Context, partnerID string) ([]model.Service, error)
	ServiceCategories(ctx context.Context) (model.ServiceCategories, error)
	CreateService(ctx context.Context, in model.ServiceInput) (model.Service, error)

	// Metrics
	ListMetrics(ctx context.Context, filter model.MetricsFilter) ([]model.PartnerMetrics, error)
	MetricsSummary(ctx context.Context) (model.MetricsSummary, error)
	MetricsTimeseries(ctx context.Context, metricType model.MetricType, partnerID string) ([]model.TimeseriesPoint, error)
	CreateMetrics(ctx context.Context, in model.MetricsInput) (model.PartnerMetrics, error)

	// Network
	NetworkGraph(ctx context.Context) (model.NetworkGraph, error)
	NetworkAnalysis(ctx context.Context) (model.NetworkAnalysis, error)
	PartnerConnections(ctx context.Context, id string) (model.PartnerConnections, error)
	CreateEdge(ctx context.Context, in model.EdgeInput) (model.NetworkEdge, error)

	// Disaster
	DisasterCapabilities(ctx context.Context) ([]model.DisasterCapability, error)
	CapabilitiesSummary(ctx context.Context) (model.CapabilitiesSummary, error)
	DisasterStatuses(ctx context.Context) ([]model.DisasterStatus, error)
	ActiveEvents(ctx context.Context) (model.ActiveEvents, error)
	DisasterDashboard(ctx context.Context) (model.DisasterDashboard, error)
	CreateDisasterStatus(ctx context.Context, in model.StatusInput) (model.DisasterStatus, error)

	// Search
	SearchPartners(ctx context.Context, params model.SearchParams) (model.SearchResult, error)
	SearchNearby(ctx context.Context, lat, lng, radiusMiles float64) (model.NearbyResult, error)
	SearchServices(ctx context.Context) (model.ServiceSearchResult, error)

	// Analysis
	Coverage(ctx context.Context) (model.Coverage, error)
	Gaps(ctx context.Context) (model.GapAnalysis, error)
	Equity(ctx context.Context) (model.EquityAssessment, error)
	ImpactSummary(ctx context.Context) (model.ImpactSummary, error)
	ReadinessScore(ctx context.Context) (model.ReadinessScore, error)
	Summarize(ctx context.Context, req model.SummarizeRequest) (model.SummarizeResponse, error)
}

// Source selects which API implementation Open returns.
type Source string

const (
	SourceFixture Source = "fixture"
	SourceLive    Source = "live"
)

// Options configure Open.
type Options struct {
	Source   Source
	Endpoint string
	// Timeout bounds each live request. Zero means no timeout.
	Timeout time.Duration
	// Store backs the fixture source. A fresh seeded store is used when nil.
	Store *fixture.Store
}

// Open returns the API implementation chosen by opts.Source.
func Open(opts Options) (API, error) {
	switch opts.Source {
	case SourceFixture, "":
		st := opts.Store
		if st == nil {
			st = fixture.New()
		}
		return NewFixtureClient(st), nil
	case SourceLive:
		return NewClient(opts.Endpoint).WithTimeout(opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown api source %q (want fixture or live)", opts.Source)
	}
}

// StatusError reports a non-2xx response from the live backend.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is maps 404 to model.ErrNotFound and 400/422 to model.ErrInvalidInput so
// callers can branch the same way for either source.
func (e *StatusError) Is(target error) bool {
	switch target {
	case model.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case model.ErrInvalidInput:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}
