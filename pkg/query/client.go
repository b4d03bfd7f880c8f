package query

import (
	"context"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/rmax-ai/partnermap/pkg/client"
	"github.com/rmax-ai/partnermap/pkg/model"
)

// Client wraps an API so reads go through the cache and mutations invalidate
// the families they affect.
type Client struct {
	api   client.API
	cache *Cache
}

var _ client.API = (*Client)(nil)

func NewClient(api client.API, cache *Cache) *Client {
	return &Client{api: api, cache: cache}
}

func (c *Client) Cache() *Cache { return c.cache }

// --- Partners ---

func (c *Client) ListPartners(ctx context.Context) ([]model.Partner, error) {
	return Fetch(ctx, c.cache, KeyPartners, c.api.ListPartners)
}

func (c *Client) PartnersGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error) {
	return Fetch(ctx, c.cache, KeyPartnersGeoJSON, c.api.PartnersGeoJSON)
}

func (c *Client) GetPartner(ctx context.Context, id string) (model.Partner, error) {
	return Fetch(ctx, c.cache, PartnerKey(id), func(ctx context.Context) (model.Partner, error) {
		return c.api.GetPartner(ctx, id)
	})
}

func (c *Client) CreatePartner(ctx context.Context, in model.PartnerInput) (model.Partner, error) {
	return Mutate(ctx, c.cache, func(ctx context.Context) (model.Partner, error) {
		return c.api.CreatePartner(ctx, in)
	}, PartnerMutation...)
}

func (c *Client) UpdatePartner(ctx context.Context, id string, in model.PartnerInput) (model.Partner, error) {
	return Mutate(ctx, c.cache, func(ctx context.Context) (model.Partner, error) {
		return c.api.UpdatePartner(ctx, id, in)
	}, PartnerMutation...)
}

func (c *Client) DeletePartner(ctx context.Context, id string) error {
	_, err := Mutate(ctx, c.cache, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.api.DeletePartner(ctx, id)
	}, PartnerMutation...)
	return err
}

func (c *Client) ApprovePartner(ctx context.Context, id string) (model.ApprovalResult, error) {
	return Mutate(ctx, c.cache, func(ctx context.Context) (model.ApprovalResult, error) {
		return c.api.ApprovePartner(ctx, id)
	}, PartnerMutation...)
}

// --- Services ---

func (c *Client) ListServices(ctx context.Context, partnerID string) ([]model.Service, error) {
	return Fetch(ctx, c.cache, ServicesKey(partnerID), func(ctx context.Context) ([]model.Service, error) {
		return c.api.ListServices(ctx, partnerID)
	})
}

func (c *Client) ServiceCategories(ctx context.Context) (model.ServiceCategories, error) {
	return Fetch(ctx, c.cache, KeyServiceCategories, c.api.ServiceCategories)
}

func (c *Client) CreateService(ctx context.Context, in model.ServiceInput) (model.Service, error) {
	return Mutate(ctx, c.cache, func(ctx context.Context) (model.Service, error) {
		return c.api.CreateService(ctx, in)
	}, ServiceMutation...)
}

// --- Metrics ---

func (c *Client) ListMetrics(ctx context.Context, filter model.MetricsFilter) ([]model.PartnerMetrics, error) {
	return Fetch(ctx, c.cache, MetricsKey(filter), func(ctx context.Context) ([]model.PartnerMetrics, error) {
		return c.api.ListMetrics(ctx, filter)
	})
}

func (c *Client) MetricsSummary(ctx context.Context) (model.MetricsSummary, error) {
	return Fetch(ctx, c.cache, KeyMetricsSummary, c.api.MetricsSummary)
}

func (c *Client) MetricsTimeseries(ctx context.Context, metricType model.MetricType, partnerID string) ([]model.TimeseriesPoint, error) {
	return Fetch(ctx, c.cache, TimeseriesKey(metricType, partnerID), func(ctx context.Context) ([]model.TimeseriesPoint, error) {
		return c.api.MetricsTimeseries(ctx, metricType, partnerID)
	})
}

func (c *Client) CreateMetrics(ctx context.Context, in model.MetricsInput) (model.PartnerMetrics, error) {
	return Mutate(ctx, c.cache, func(ctx context.Context) (model.PartnerMetrics, error) {
		return c.api.CreateMetrics(ctx, in)
	}, MetricMutation...)
}

// --- Network ---

func (c *Client) NetworkGraph(ctx context.Context) (model.NetworkGraph, error) {
	return Fetch(ctx, c.cache, KeyNetworkGraph, c.api.NetworkGraph)
}

func (c *Client) NetworkAnalysis(ctx context.Context) (model.NetworkAnalysis, error) {
	return Fetch(ctx, c.cache, KeyNetworkAnalysis, c.api.NetworkAnalysis)
}

func (c *Client) PartnerConnections(ctx context.Context, id string) (model.PartnerConnections, error) {
	return Fetch(ctx, c.cache, ConnectionsKey(id), func(ctx context.Context) (model.PartnerConnections, error) {
		return c.api.PartnerConnections(ctx, id)
	})
}

func (c *Client) CreateEdge(ctx context.Context, in model.EdgeInput) (model.NetworkEdge, error) {
	return Mutate(ctx, c.cache, func(ctx context.Context) (model.NetworkEdge, error) {
		return c.api.CreateEdge(ctx, in)
	}, EdgeMutation...)
}

// --- Disaster ---

func (c *Client) DisasterCapabilities(ctx context.Context) ([]model.DisasterCapability, error) {
	return Fetch(ctx, c.cache, KeyCapabilities, c.api.DisasterCapabilities)
}

func (c *Client) CapabilitiesSummary(ctx context.Context) (model.CapabilitiesSummary, error) {
	return Fetch(ctx, c.cache, KeyCapabilitiesSummary, c.api.CapabilitiesSummary)
}

func (c *Client) DisasterStatuses(ctx context.Context) ([]model.DisasterStatus, error) {
	return Fetch(ctx, c.cache, KeyDisasterStatuses, c.api.DisasterStatuses)
}

func (c *Client) ActiveEvents(ctx context.Context) (model.ActiveEvents, error) {
	return Fetch(ctx, c.cache, KeyActiveEvents, c.api.ActiveEvents)
}

func (c *Client) DisasterDashboard(ctx context.Context) (model.DisasterDashboard, error) {
	return Fetch(ctx, c.cache, KeyDisasterDashboard, c.api.DisasterDashboard)
}

func (c *Client) CreateDisasterStatus(ctx context.Context, in model.StatusInput) (model.DisasterStatus, error) {
	return Mutate(ctx, c.cache, func(ctx context.Context) (model.DisasterStatus, error) {
		return c.api.CreateDisasterStatus(ctx, in)
	}, StatusMutation...)
}

// --- Search ---

func (c *Client) SearchPartners(ctx context.Context, params model.SearchParams) (model.SearchResult, error) {
	return Fetch(ctx, c.cache, SearchKey(params), func(ctx context.Context) (model.SearchResult, error) {
		return c.api.SearchPartners(ctx, params)
	})
}

func (c *Client) SearchNearby(ctx context.Context, lat, lng, radiusMiles float64) (model.NearbyResult, error) {
	return Fetch(ctx, c.cache, NearbyKey(lat, lng, radiusMiles), func(ctx context.Context) (model.NearbyResult, error) {
		return c.api.SearchNearby(ctx, lat, lng, radiusMiles)
	})
}

func (c *Client) SearchServices(ctx context.Context) (model.ServiceSearchResult, error) {
	return Fetch(ctx, c.cache, KeySearchServices, c.api.SearchServices)
}

// --- Analysis ---

func (c *Client) Coverage(ctx context.Context) (model.Coverage, error) {
	return Fetch(ctx, c.cache, KeyCoverage, c.api.Coverage)
}

func (c *Client) Gaps(ctx context.Context) (model.GapAnalysis, error) {
	return Fetch(ctx, c.cache, KeyGaps, c.api.Gaps)
}

func (c *Client) Equity(ctx context.Context) (model.EquityAssessment, error) {
	return Fetch(ctx, c.cache, KeyEquity, c.api.Equity)
}

func (c *Client) ImpactSummary(ctx context.Context) (model.ImpactSummary, error) {
	return Fetch(ctx, c.cache, KeyImpactSummary, c.api.ImpactSummary)
}

func (c *Client) ReadinessScore(ctx context.Context) (model.ReadinessScore, error) {
	return Fetch(ctx, c.cache, KeyReadiness, c.api.ReadinessScore)
}

// Summarize is an action, not a view of data; it is never cached.
func (c *Client) Summarize(ctx context.Context, req model.SummarizeRequest) (model.SummarizeResponse, error) {
	return c.api.Summarize(ctx, req)
}
