package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// DefaultEndpoint is where the fixture daemon listens by default.
const DefaultEndpoint = "http://127.0.0.1:8095"

// Client is the live API client. Every call is a single HTTP round trip
// under the /api base; bodies are decoded as-is.
type Client struct {
	endpoint string
	http     *http.Client
}

var _ API = (*Client)(nil)

// NewClient creates a new live client.
// endpoint defaults to DefaultEndpoint if empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{},
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.http.Timeout = d
	return c
}

// WithHTTPClient swaps the underlying transport client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// do performs one request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	defer func() { observe(op, SourceLive, err) }()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+"/api"+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: malformed response body: %w", op, err)
	}
	return nil
}

func get[T any](ctx context.Context, c *Client, op, path string) (T, error) {
	var out T
	err := c.do(ctx, op, http.MethodGet, path, nil, &out)
	return out, err
}

func send[T any](ctx context.Context, c *Client, op, method, path string, body any) (T, error) {
	var out T
	err := c.do(ctx, op, method, path, body, &out)
	return out, err
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// --- Partners ---

func (c *Client) ListPartners(ctx context.Context) ([]model.Partner, error) {
	return get[[]model.Partner](ctx, c, "partners.list", "/partners")
}

func (c *Client) PartnersGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{}
	if err := c.do(ctx, "partners.geojson", http.MethodGet, "/partners/geojson", nil, fc); err != nil {
		return nil, err
	}
	return fc, nil
}

func (c *Client) GetPartner(ctx context.Context, id string) (model.Partner, error) {
	return get[model.Partner](ctx, c, "partners.get", "/partners/"+url.PathEscape(id))
}

// CreatePartner validates in before sending; invalid input never leaves the process.
func (c *Client) CreatePartner(ctx context.Context, in model.PartnerInput) (model.Partner, error) {
	if err := in.ValidateCreate(); err != nil {
		observe("partners.create", SourceLive, err)
		return model.Partner{}, err
	}
	return send[model.Partner](ctx, c, "partners.create", http.MethodPost, "/partners", in)
}

func (c *Client) UpdatePartner(ctx context.Context, id string, in model.PartnerInput) (model.Partner, error) {
	if err := in.ValidateUpdate(); err != nil {
		observe("partners.update", SourceLive, err)
		return model.Partner{}, err
	}
	return send[model.Partner](ctx, c, "partners.update", http.MethodPut, "/partners/"+url.PathEscape(id), in)
}

func (c *Client) DeletePartner(ctx context.Context, id string) error {
	return c.do(ctx, "partners.delete", http.MethodDelete, "/partners/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ApprovePartner(ctx context.Context, id string) (model.ApprovalResult, error) {
	return send[model.ApprovalResult](ctx, c, "partners.approve", http.MethodPost, "/partners/"+url.PathEscape(id)+"/approve", nil)
}

// --- Services ---

func (c *Client) ListServices(ctx context.Context, partnerID string) ([]model.Service, error) {
	q := url.Values{}
	if partnerID != "" {
		q.Set("partner_id", partnerID)
	}
	return get[[]model.Service](ctx, c, "services.list", withQuery("/services", q))
}

func (c *Client) ServiceCategories(ctx context.Context) (model.ServiceCategories, error) {
	return get[model.ServiceCategories](ctx, c, "services.categories", "/services/categories")
}

func (c *Client) CreateService(ctx context.Context, in model.ServiceInput) (model.Service, error) {
	if err := in.Validate(model.DefaultServiceCategories()); err != nil {
		observe("services.create", SourceLive, err)
		return model.Service{}, err
	}
	return send[model.Service](ctx, c, "services.create", http.MethodPost, "/services", in)
}

// --- Metrics ---

func (c *Client) ListMetrics(ctx context.Context, filter model.MetricsFilter) ([]model.PartnerMetrics, error) {
	q := url.Values{}
	if filter.PartnerID != "" {
		q.Set("partner_id", filter.PartnerID)
	}
	if filter.MetricType != "" {
		q.Set("metric_type", string(filter.MetricType))
	}
	return get[[]model.PartnerMetrics](ctx, c, "metrics.list", withQuery("/metrics", q))
}

func (c *Client) MetricsSummary(ctx context.Context) (model.MetricsSummary, error) {
	return get[model.MetricsSummary](ctx, c, "metrics.summary", "/metrics/summary")
}

func (c *Client) MetricsTimeseries(ctx context.Context, metricType model.MetricType, partnerID string) ([]model.TimeseriesPoint, error) {
	q := url.Values{}
	if metricType != "" {
		q.Set("metric_type", string(metricType))
	}
	if partnerID != "" {
		q.Set("partner_id", partnerID)
	}
	return get[[]model.TimeseriesPoint](ctx, c, "metrics.timeseries", withQuery("/metrics/timeseries", q))
}

func (c *Client) CreateMetrics(ctx context.Context, in model.MetricsInput) (model.PartnerMetrics, error) {
	if err := in.Validate(); err != nil {
		observe("metrics.create", SourceLive, err)
		return model.PartnerMetrics{}, err
	}
	return send[model.PartnerMetrics](ctx, c, "metrics.create", http.MethodPost, "/metrics", in)
}

// --- Network ---

func (c *Client) NetworkGraph(ctx context.Context) (model.NetworkGraph, error) {
	return get[model.NetworkGraph](ctx, c, "network.graph", "/network/graph")
}

func (c *Client) NetworkAnalysis(ctx context.Context) (model.NetworkAnalysis, error) {
	return get[model.NetworkAnalysis](ctx, c, "network.analysis", "/network/analysis")
}

func (c *Client) PartnerConnections(ctx context.Context, id string) (model.PartnerConnections, error) {
	return get[model.PartnerConnections](ctx, c, "network.connections", "/network/partner/"+url.PathEscape(id)+"/connections")
}

func (c *Client) CreateEdge(ctx context.Context, in model.EdgeInput) (model.NetworkEdge, error) {
	if err := in.Validate(); err != nil {
		observe("network.create_edge", SourceLive, err)
		return model.NetworkEdge{}, err
	}
	return send[model.NetworkEdge](ctx, c, "network.create_edge", http.MethodPost, "/network/edges", in)
}

// --- Disaster ---

func (c *Client) DisasterCapabilities(ctx context.Context) ([]model.DisasterCapability, error) {
	return get[[]model.DisasterCapability](ctx, c, "disaster.capabilities", "/disaster/capabilities")
}

func (c *Client) CapabilitiesSummary(ctx context.Context) (model.CapabilitiesSummary, error) {
	return get[model.CapabilitiesSummary](ctx, c, "disaster.capabilities_summary", "/disaster/capabilities/summary")
}

func (c *Client) DisasterStatuses(ctx context.Context) ([]model.DisasterStatus, error) {
	return get[[]model.DisasterStatus](ctx, c, "disaster.status", "/disaster/status")
}

func (c *Client) ActiveEvents(ctx context.Context) (model.ActiveEvents, error) {
	return get[model.ActiveEvents](ctx, c, "disaster.events", "/disaster/status/events")
}

func (c *Client) DisasterDashboard(ctx context.Context) (model.DisasterDashboard, error) {
	return get[model.DisasterDashboard](ctx, c, "disaster.dashboard", "/disaster/dashboard")
}

func (c *Client) CreateDisasterStatus(ctx context.Context, in model.StatusInput) (model.DisasterStatus, error) {
	if err := in.Validate(); err != nil {
		observe("disaster.create_status", SourceLive, err)
		return model.DisasterStatus{}, err
	}
	return send[model.DisasterStatus](ctx, c, "disaster.create_status", http.MethodPost, "/disaster/status", in)
}

// --- Search ---

func (c *Client) SearchPartners(ctx context.Context, params model.SearchParams) (model.SearchResult, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if params.ServiceCategory != "" {
		q.Set("service_category", string(params.ServiceCategory))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	return get[model.SearchResult](ctx, c, "search.partners", withQuery("/search/partners", q))
}

func (c *Client) SearchNearby(ctx context.Context, lat, lng, radiusMiles float64) (model.NearbyResult, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("radius_miles", strconv.FormatFloat(radiusMiles, 'f', -1, 64))
	return get[model.NearbyResult](ctx, c, "search.nearby", withQuery("/search/nearby", q))
}

func (c *Client) SearchServices(ctx context.Context) (model.ServiceSearchResult, error) {
	return get[model.ServiceSearchResult](ctx, c, "search.services", "/search/services")
}

// --- Analysis ---

func (c *Client) Coverage(ctx context.Context) (model.Coverage, error) {
	return get[model.Coverage](ctx, c, "analysis.coverage", "/analysis/coverage")
}

func (c *Client) Gaps(ctx context.Context) (model.GapAnalysis, error) {
	return get[model.GapAnalysis](ctx, c, "analysis.gaps", "/analysis/gaps")
}

func (c *Client) Equity(ctx context.Context) (model.EquityAssessment, error) {
	return get[model.EquityAssessment](ctx, c, "analysis.equity", "/analysis/equity")
}

func (c *Client) ImpactSummary(ctx context.Context) (model.ImpactSummary, error) {
	return get[model.ImpactSummary](ctx, c, "analysis.impact", "/analysis/impact-summary")
}

func (c *Client) ReadinessScore(ctx context.Context) (model.ReadinessScore, error) {
	return get[model.ReadinessScore](ctx, c, "analysis.readiness", "/analysis/readiness-score")
}

func (c *Client) Summarize(ctx context.Context, req model.SummarizeRequest) (model.SummarizeResponse, error) {
	return send[model.SummarizeResponse](ctx, c, "analysis.summarize", http.MethodPost, "/analysis/ai/summarize", req)
}
