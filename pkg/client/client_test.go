package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rmax-ai/partnermap/pkg/fixture"
	"github.com/rmax-ai/partnermap/pkg/model"
)

func TestClient_Requests(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		wantQuery  string
	}{
		{
			name:       "ListPartners",
			call:       func(c *Client) error { _, err := c.ListPartners(context.Background()); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/api/partners",
		},
		{
			name:       "GetPartner",
			call:       func(c *Client) error { _, err := c.GetPartner(context.Background(), "PTR-001"); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/api/partners/PTR-001",
		},
		{
			name:       "DeletePartner",
			call:       func(c *Client) error { return c.DeletePartner(context.Background(), "7") },
			wantMethod: http.MethodDelete,
			wantPath:   "/api/partners/7",
		},
		{
			name:       "ApprovePartner",
			call:       func(c *Client) error { _, err := c.ApprovePartner(context.Background(), "7"); return err },
			wantMethod: http.MethodPost,
			wantPath:   "/api/partners/7/approve",
		},
		{
			name:       "ListServicesForPartner",
			call:       func(c *Client) error { _, err := c.ListServices(context.Background(), "3"); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/api/services",
			wantQuery:  "partner_id=3",
		},
		{
			name:       "PartnerConnections",
			call:       func(c *Client) error { _, err := c.PartnerConnections(context.Background(), "2"); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/api/network/partner/2/connections",
		},
		{
			name: "SearchPartners",
			call: func(c *Client) error {
				_, err := c.SearchPartners(context.Background(), model.SearchParams{Query: "food", ServiceCategory: model.CategoryFoodBasicNeeds})
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/api/search/partners",
			wantQuery:  "q=food&service_category=food_basic_needs",
		},
		{
			name:       "SearchNearby",
			call:       func(c *Client) error { _, err := c.SearchNearby(context.Background(), 37.8, -122.27, 0); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/api/search/nearby",
			wantQuery:  "lat=37.8&lng=-122.27&radius_miles=0",
		},
		{
			name:       "ActiveEvents",
			call:       func(c *Client) error { _, err := c.ActiveEvents(context.Background()); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/api/disaster/status/events",
		},
		{
			name:       "ImpactSummary",
			call:       func(c *Client) error { _, err := c.ImpactSummary(context.Background()); return err },
			wantMethod: http.MethodGet,
			wantPath:   "/api/analysis/impact-summary",
		},
		{
			name: "Summarize",
			call: func(c *Client) error {
				_, err := c.Summarize(context.Background(), model.SummarizeRequest{Prompt: "hi"})
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/analysis/ai/summarize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != tt.wantMethod {
					t.Errorf("Expected method %s, got %s", tt.wantMethod, r.Method)
				}
				if r.URL.Path != tt.wantPath {
					t.Errorf("Expected path %s, got %s", tt.wantPath, r.URL.Path)
				}
				if r.URL.RawQuery != tt.wantQuery {
					t.Errorf("Expected query %q, got %q", tt.wantQuery, r.URL.RawQuery)
				}
				if r.Method == http.MethodDelete {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				w.Write([]byte("{}"))
			}))
			defer server.Close()

			if err := tt.call(NewClient(server.URL)); err != nil {
				// list endpoints decode "{}" into a slice and fail; only the
				// request shape matters here
				var syntax *json.UnmarshalTypeError
				if !errors.As(err, &syntax) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantIs    error
		wantNotIs error
	}{
		{"NotFound", http.StatusNotFound, model.ErrNotFound, model.ErrInvalidInput},
		{"Unprocessable", http.StatusUnprocessableEntity, model.ErrInvalidInput, model.ErrNotFound},
		{"ServerError", http.StatusInternalServerError, nil, model.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"boom"}`, tt.status)
			}))
			defer server.Close()

			_, err := NewClient(server.URL).GetPartner(context.Background(), "1")
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("GetPartner() error = %v, want *StatusError", err)
			}
			if se.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.status)
			}
			if se.Body != `{"error":"boom"}` {
				t.Errorf("Body = %q", se.Body)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v) = false", tt.wantIs)
			}
			if errors.Is(err, tt.wantNotIs) {
				t.Errorf("errors.Is(%v) = true", tt.wantNotIs)
			}
		})
	}
}

func TestClient_NoRetryOnFailure(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).ListPartners(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hit %d times, want 1", got)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).NetworkGraph(context.Background()); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if _, err := NewClient(url).Coverage(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestClient_InvalidInputNeverSent(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.CreatePartner(context.Background(), model.PartnerInput{Latitude: model.Ptr(200.0)})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("CreatePartner() error = %v, want ErrInvalidInput", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("invalid payload reached the server")
	}
}

func TestClient_CreatePartnerRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in model.PartnerInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode: %v", err)
		}
		p := model.Partner{ID: "abc", PartnerID: "PTR-ABC", ApprovalStatus: model.ApprovalPending, IsActive: true}
		in.ApplyTo(&p)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	}))
	defer server.Close()

	p, err := NewClient(server.URL).CreatePartner(context.Background(), model.PartnerInput{
		OrganizationName: model.Ptr("Tool Library"),
		OrganizationType: model.Ptr(model.OrgInformal),
	})
	if err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}
	if p.OrganizationName != "Tool Library" || p.PartnerID != "PTR-ABC" {
		t.Errorf("CreatePartner() = %+v", p)
	}
}

func TestFixtureClient(t *testing.T) {
	c := NewFixtureClient(fixture.New())
	ctx := context.Background()

	partners, err := c.ListPartners(ctx)
	if err != nil || len(partners) != 12 {
		t.Fatalf("ListPartners() = %d, %v; want 12", len(partners), err)
	}

	if _, err := c.GetPartner(ctx, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetPartner(missing) error = %v, want ErrNotFound", err)
	}

	created, err := c.CreatePartner(ctx, model.PartnerInput{
		OrganizationName: model.Ptr("Tool Library"),
		OrganizationType: model.Ptr(model.OrgInformal),
	})
	if err != nil {
		t.Fatalf("CreatePartner() error = %v", err)
	}
	partners, _ = c.ListPartners(ctx)
	found := false
	for _, p := range partners {
		if p.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Error("created partner missing from list")
	}

	dash, _ := c.DisasterDashboard(ctx)
	if dash.TotalDisasterCapablePartners != 10 || dash.StatusBreakdown.Operational != 9 {
		t.Errorf("DisasterDashboard() = %+v", dash)
	}
}

func TestFixtureClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFixtureClient(fixture.New()).ListPartners(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ListPartners() error = %v, want context.Canceled", err)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{"default is fixture", Options{}, "fixture", false},
		{"fixture", Options{Source: SourceFixture}, "fixture", false},
		{"live", Options{Source: SourceLive, Endpoint: "http://example.invalid"}, "live", false},
		{"unknown", Options{Source: "carrier-pigeon"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, err := Open(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			switch api.(type) {
			case *FixtureClient:
				if tt.want != "fixture" {
					t.Errorf("Open() = fixture, want %s", tt.want)
				}
			case *Client:
				if tt.want != "live" {
					t.Errorf("Open() = live, want %s", tt.want)
				}
			}
		})
	}
}
