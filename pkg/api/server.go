package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmax-ai/partnermap/pkg/client"
	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/reports"
)

// DefaultAddr is where the daemon listens when no address is configured.
const DefaultAddr = "127.0.0.1:8095"

// Server serves the partner directory HTTP API under /api from any
// client.API, normally the fixture.
type Server struct {
	api    client.API
	server *http.Server
}

// NewServer creates a new API server instance
func NewServer(api client.API, addr string) *Server {
	s := &Server{api: api}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Partners
	mux.HandleFunc("GET /api/partners", s.handleListPartners)
	mux.HandleFunc("GET /api/partners/geojson", s.handlePartnersGeoJSON)
	mux.HandleFunc("GET /api/partners/{id}", s.handleGetPartner)
	mux.HandleFunc("POST /api/partners", s.handleCreatePartner)
	mux.HandleFunc("PUT /api/partners/{id}", s.handleUpdatePartner)
	mux.HandleFunc("DELETE /api/partners/{id}", s.handleDeletePartner)
	mux.HandleFunc("POST /api/partners/{id}/approve", s.handleApprovePartner)

	// Services
	mux.HandleFunc("GET /api/services", s.handleListServices)
	mux.HandleFunc("GET /api/services/categories", s.handleServiceCategories)
	mux.HandleFunc("POST /api/services", s.handleCreateService)

	// Metrics
	mux.HandleFunc("GET /api/metrics", s.handleListMetrics)
	mux.HandleFunc("GET /api/metrics/summary", s.handleMetricsSummary)
	mux.HandleFunc("GET /api/metrics/timeseries", s.handleMetricsTimeseries)
	mux.HandleFunc("POST /api/metrics", s.handleCreateMetrics)

	// Network
	mux.HandleFunc("GET /api/network/graph", s.handleNetworkGraph)
	mux.HandleFunc("GET /api/network/analysis", s.handleNetworkAnalysis)
	mux.HandleFunc("GET /api/network/partner/{id}/connections", s.handlePartnerConnections)
	mux.HandleFunc("POST /api/network/edges", s.handleCreateEdge)

	// Disaster
	mux.HandleFunc("GET /api/disaster/capabilities", s.handleCapabilities)
	mux.HandleFunc("GET /api/disaster/capabilities/summary", s.handleCapabilitiesSummary)
	mux.HandleFunc("GET /api/disaster/status", s.handleDisasterStatuses)
	mux.HandleFunc("GET /api/disaster/status/events", s.handleActiveEvents)
	mux.HandleFunc("POST /api/disaster/status", s.handleCreateDisasterStatus)
	mux.HandleFunc("GET /api/disaster/dashboard", s.handleDisasterDashboard)

	// Search
	mux.HandleFunc("GET /api/search/partners", s.handleSearchPartners)
	mux.HandleFunc("GET /api/search/nearby", s.handleSearchNearby)
	mux.HandleFunc("GET /api/search/services", s.handleSearchServices)

	// Analysis
	mux.HandleFunc("GET /api/analysis/coverage", s.handleCoverage)
	mux.HandleFunc("GET /api/analysis/gaps", s.handleGaps)
	mux.HandleFunc("GET /api/analysis/equity", s.handleEquity)
	mux.HandleFunc("GET /api/analysis/impact-summary", s.handleImpactSummary)
	mux.HandleFunc("GET /api/analysis/readiness-score", s.handleReadiness)
	mux.HandleFunc("POST /api/analysis/ai/summarize", s.handleSummarize)

	// Reports
	mux.HandleFunc("GET /api/reports/{type}", s.handleReports)

	// Middleware: Logging, Panic Recovery, Security Headers
	handler := withLogging(withRecovery(withSecureHeaders(mux)))

	if addr == "" {
		addr = DefaultAddr
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the HTTP server (blocking)
func (s *Server) Start() error {
	fmt.Printf(`{"level":"info","msg":"server_starting","addr":"%s"}`+"\n", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	fmt.Println(`{"level":"info","msg":"server_stopping"}`)
	return s.server.Shutdown(ctx)
}

// handleHealth returns simple status
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_encode_response","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
	}
}

// writeError maps domain errors onto status codes. Unknown errors are logged
// and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verrs model.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation_failed",
			"fields": verrs,
		})
	case errors.Is(err, model.ErrInvalidInput):
		http.Error(w, `{"error":"validation_failed"}`, http.StatusUnprocessableEntity)
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	default:
		fmt.Printf(`{"level":"error","msg":"request_failed","op":"%s","trace_id":"%s","error":"%v"}`+"\n", op, getTraceID(r.Context()), err)
		http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
	}
}

// reply writes v as 200 JSON, or the mapped error.
func reply[T any](w http.ResponseWriter, r *http.Request, op string, v T, err error) {
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

// created writes v as 201 JSON, or the mapped error.
func created[T any](w http.ResponseWriter, r *http.Request, op string, v T, err error) {
	if err != nil {
		writeError(w, r, op, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, `{"error":"invalid_json_body"}`, http.StatusBadRequest)
		return false
	}
	return true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid_%s"}`, name), http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

// queryFloat parses a finite float parameter within [lo, hi]. An absent
// parameter yields fallback unless it is required.
func queryFloat(w http.ResponseWriter, r *http.Request, name string, required bool, fallback, lo, hi float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			http.Error(w, fmt.Sprintf(`{"error":"missing_%s"}`, name), http.StatusBadRequest)
			return 0, false
		}
		return fallback, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < lo || f > hi {
		http.Error(w, fmt.Sprintf(`{"error":"invalid_%s"}`, name), http.StatusBadRequest)
		return 0, false
	}
	return f, true
}

// --- Partners ---

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.ListPartners(r.Context())
	reply(w, r, "partners.list", v, err)
}

func (s *Server) handlePartnersGeoJSON(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.PartnersGeoJSON(r.Context())
	reply(w, r, "partners.geojson", v, err)
}

func (s *Server) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.GetPartner(r.Context(), r.PathValue("id"))
	reply(w, r, "partners.get", v, err)
}

func (s *Server) handleCreatePartner(w http.ResponseWriter, r *http.Request) {
	var in model.PartnerInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := s.api.CreatePartner(r.Context(), in)
	created(w, r, "partners.create", v, err)
}

func (s *Server) handleUpdatePartner(w http.ResponseWriter, r *http.Request) {
	var in model.PartnerInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := s.api.UpdatePartner(r.Context(), r.PathValue("id"), in)
	reply(w, r, "partners.update", v, err)
}

func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	if err := s.api.DeletePartner(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, "partners.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApprovePartner(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.ApprovePartner(r.Context(), r.PathValue("id"))
	reply(w, r, "partners.approve", v, err)
}

// --- Services ---

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.ListServices(r.Context(), r.URL.Query().Get("partner_id"))
	reply(w, r, "services.list", v, err)
}

func (s *Server) handleServiceCategories(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.ServiceCategories(r.Context())
	reply(w, r, "services.categories", v, err)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var in model.ServiceInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := s.api.CreateService(r.Context(), in)
	created(w, r, "services.create", v, err)
}

// --- Metrics ---

func (s *Server) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.MetricsFilter{
		PartnerID:  q.Get("partner_id"),
		MetricType: model.MetricType(q.Get("metric_type")),
	}
	v, err := s.api.ListMetrics(r.Context(), filter)
	reply(w, r, "metrics.list", v, err)
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.MetricsSummary(r.Context())
	reply(w, r, "metrics.summary", v, err)
}

func (s *Server) handleMetricsTimeseries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := s.api.MetricsTimeseries(r.Context(), model.MetricType(q.Get("metric_type")), q.Get("partner_id"))
	reply(w, r, "metrics.timeseries", v, err)
}

func (s *Server) handleCreateMetrics(w http.ResponseWriter, r *http.Request) {
	var in model.MetricsInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := s.api.CreateMetrics(r.Context(), in)
	created(w, r, "metrics.create", v, err)
}

// --- Network ---

func (s *Server) handleNetworkGraph(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.NetworkGraph(r.Context())
	reply(w, r, "network.graph", v, err)
}

func (s *Server) handleNetworkAnalysis(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.NetworkAnalysis(r.Context())
	reply(w, r, "network.analysis", v, err)
}

func (s *Server) handlePartnerConnections(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.PartnerConnections(r.Context(), r.PathValue("id"))
	reply(w, r, "network.connections", v, err)
}

func (s *Server) handleCreateEdge(w http.ResponseWriter, r *http.Request) {
	var in model.EdgeInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := s.api.CreateEdge(r.Context(), in)
	created(w, r, "network.create_edge", v, err)
}

// --- Disaster ---

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.DisasterCapabilities(r.Context())
	reply(w, r, "disaster.capabilities", v, err)
}

func (s *Server) handleCapabilitiesSummary(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.CapabilitiesSummary(r.Context())
	reply(w, r, "disaster.capabilities_summary", v, err)
}

func (s *Server) handleDisasterStatuses(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.DisasterStatuses(r.Context())
	reply(w, r, "disaster.status", v, err)
}

func (s *Server) handleActiveEvents(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.ActiveEvents(r.Context())
	reply(w, r, "disaster.events", v, err)
}

func (s *Server) handleCreateDisasterStatus(w http.ResponseWriter, r *http.Request) {
	var in model.StatusInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := s.api.CreateDisasterStatus(r.Context(), in)
	created(w, r, "disaster.create_status", v, err)
}

func (s *Server) handleDisasterDashboard(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.DisasterDashboard(r.Context())
	reply(w, r, "disaster.dashboard", v, err)
}

// --- Search ---

func (s *Server) handleSearchPartners(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}
	q := r.URL.Query()
	params := model.SearchParams{
		Query:           q.Get("q"),
		ServiceCategory: model.ServiceCategory(q.Get("service_category")),
		Limit:           limit,
		Offset:          offset,
	}
	v, err := s.api.SearchPartners(r.Context(), params)
	reply(w, r, "search.partners", v, err)
}

func (s *Server) handleSearchNearby(w http.ResponseWriter, r *http.Request) {
	lat, ok := queryFloat(w, r, "lat", true, 0, -90, 90)
	if !ok {
		return
	}
	lng, ok := queryFloat(w, r, "lng", true, 0, -180, 180)
	if !ok {
		return
	}
	radius, ok := queryFloat(w, r, "radius_miles", false, model.DefaultRadiusMiles, -math.MaxFloat64, math.MaxFloat64)
	if !ok {
		return
	}
	v, err := s.api.SearchNearby(r.Context(), lat, lng, radius)
	reply(w, r, "search.nearby", v, err)
}

func (s *Server) handleSearchServices(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.SearchServices(r.Context())
	reply(w, r, "search.services", v, err)
}

// --- Analysis ---

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.Coverage(r.Context())
	reply(w, r, "analysis.coverage", v, err)
}

func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.Gaps(r.Context())
	reply(w, r, "analysis.gaps", v, err)
}

func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.Equity(r.Context())
	reply(w, r, "analysis.equity", v, err)
}

func (s *Server) handleImpactSummary(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.ImpactSummary(r.Context())
	reply(w, r, "analysis.impact", v, err)
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	v, err := s.api.ReadinessScore(r.Context())
	reply(w, r, "analysis.readiness", v, err)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req model.SummarizeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := s.api.Summarize(r.Context(), req)
	reply(w, r, "analysis.summarize", v, err)
}

// handleReports generates and streams reports.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reportType := reports.ReportType(r.PathValue("type"))

	format, err := reports.ParseFormat(q.Get("format"))
	if err != nil {
		http.Error(w, `{"error":"invalid_format"}`, http.StatusBadRequest)
		return
	}

	gen, err := reports.NewReportGenerator(reportType, s.api)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid_report_type","details":"%v"}`, err), http.StatusBadRequest)
		return
	}

	params := reports.ReportParams{
		Format:     format,
		PartnerID:  q.Get("partner_id"),
		Category:   model.ServiceCategory(q.Get("service_category")),
		MetricType: model.MetricType(q.Get("metric_type")),
	}
	reader, err := gen.Generate(r.Context(), params)
	if err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_generate_report","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
		http.Error(w, `{"error":"report_generation_failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	filename := fmt.Sprintf("report_%s_%d.%s", reportType, time.Now().Unix(), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if _, err := io.Copy(w, reader); err != nil {
		fmt.Printf(`{"level":"error","msg":"failed_to_stream_report","trace_id":"%s","error":"%v"}`+"\n", getTraceID(r.Context()), err)
	}
}
