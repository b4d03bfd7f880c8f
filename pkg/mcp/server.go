package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmax-ai/partnermap/pkg/client"
	"github.com/rmax-ai/partnermap/pkg/model"
)

// Server exposes the partner directory to Model Context Protocol clients.
type Server struct {
	mcpServer *server.MCPServer
	api       client.API
}

// NewServer creates a new MCP server instance backed by api.
func NewServer(api client.API) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"partnermap",
			"1.0.0",
		),
		api: api,
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

const (
	uriPartnersGeoJSON   = "partnermap://partners/geojson"
	uriNetworkAnalysis   = "partnermap://network/analysis"
	uriDisasterDashboard = "partnermap://disaster/dashboard"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(
		uriPartnersGeoJSON,
		"Partner Locations",
		mcp.WithResourceDescription("GeoJSON FeatureCollection of active partners with coordinates"),
		mcp.WithMIMEType("application/geo+json"),
	), s.handleReadGeoJSON)

	s.mcpServer.AddResource(mcp.NewResource(
		uriNetworkAnalysis,
		"Network Analysis",
		mcp.WithResourceDescription("Centrality, communities and bridge partners of the collaboration network"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadAnalysis)

	s.mcpServer.AddResource(mcp.NewResource(
		uriDisasterDashboard,
		"Disaster Dashboard",
		mcp.WithResourceDescription("Disaster-capable partners, capabilities and operational status breakdown"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadDashboard)
}

// --- Tools ---

func (s *Server) registerTools() {
	s.mcpServer.AddTool(searchPartnersTool(), s.handleSearchPartners)

	s.mcpServer.AddTool(mcp.NewTool(
		"find_nearby_partners",
		mcp.WithDescription("List partners within a radius of a point."),
		mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude in degrees")),
		mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude in degrees")),
		mcp.WithNumber("radius_miles", mcp.Description("Search radius in miles (default 5 when omitted)")),
	), s.handleFindNearby)

	s.mcpServer.AddTool(mcp.NewTool(
		"get_partner",
		mcp.WithDescription("Fetch one partner with its services."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Internal id or PTR- partner id")),
	), s.handleGetPartner)
}

func searchPartnersTool() mcp.Tool {
	return mcp.NewTool(
		"search_partners",
		mcp.WithDescription("Search partner organizations by name or address, optionally limited to one service category."),
		mcp.WithString("query", mcp.Description("Text matched case-insensitively against name and address, whitespace included")),
		mcp.WithString("service_category", mcp.Description("One of: "+categoryList())),
		mcp.WithNumber("limit", mcp.Description("Maximum partners to list (default 50)")),
	)
}

func categoryList() string {
	names := make([]string, len(model.ServiceCategoryOrder))
	for i, c := range model.ServiceCategoryOrder {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"partnermap-aware",
		mcp.WithPromptDescription("Provides context about the community partner directory (Partners, Services, Network, Disaster mode)"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func jsonContents(uri, mimeType string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeType,
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleReadGeoJSON(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	fc, err := s.api.PartnersGeoJSON(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch partner locations: %w", err)
	}
	return jsonContents(request.Params.URI, "application/geo+json", fc)
}

func (s *Server) handleReadAnalysis(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	analysis, err := s.api.NetworkAnalysis(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch network analysis: %w", err)
	}
	return jsonContents(request.Params.URI, "application/json", analysis)
}

func (s *Server) handleReadDashboard(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	dash, err := s.api.DisasterDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch disaster dashboard: %w", err)
	}
	return jsonContents(request.Params.URI, "application/json", dash)
}

func (s *Server) handleSearchPartners(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := model.ServiceCategory(mcp.ParseString(request, "service_category", ""))
	if category != "" && !category.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown service_category %q (want one of: %s)", category, categoryList())), nil
	}

	res, err := s.api.SearchPartners(ctx, model.SearchParams{
		Query:           mcp.ParseString(request, "query", ""),
		ServiceCategory: category,
		Limit:           mcp.ParseInt(request, "limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	shown := res.Results
	if len(shown) > res.Limit {
		shown = shown[:res.Limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d partners", res.Count)
	if len(shown) < res.Count {
		fmt.Fprintf(&b, " (showing %d)", len(shown))
	}
	b.WriteString("\n")
	for _, p := range shown {
		fmt.Fprintf(&b, "- %s %s (%s) %s\n", p.PartnerID, p.OrganizationName, p.OrganizationType, p.PhysicalAddress)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleFindNearby(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, err := request.RequireFloat("lat")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lng, err := request.RequireFloat("lng")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	radius := mcp.ParseFloat64(request, "radius_miles", model.DefaultRadiusMiles)

	res, err := s.api.SearchNearby(ctx, lat, lng, radius)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d partners within %.1f miles of (%.4f, %.4f)\n", res.Count, res.RadiusMiles, lat, lng)
	for _, p := range res.Results {
		fmt.Fprintf(&b, "- %s %s %s\n", p.PartnerID, p.OrganizationName, p.PhysicalAddress)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetPartner(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, err := s.api.GetPartner(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no partner with id %q", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}
	services, err := s.api.ListServices(ctx, p.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	data, err := json.MarshalIndent(struct {
		model.Partner
		Services []model.Service `json:"services"`
	}{p, services}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal partner: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "partnermap-aware" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are helping a coordinator explore a directory of community partner organizations.

Concepts:
- Partner: an organization (nonprofit, faith-based, government, informal group, coalition or private) with an id like PTR-001.
- Service: something a partner offers, filed under one of eight categories (e.g. food_basic_needs, health_wellness).
- Network: collaboration edges between partners; centrality marks well-connected partners and bridges join communities.
- Disaster mode: partners report an operational status (operational, limited, closed) during an active event.

Use 'search_partners' or 'find_nearby_partners' to locate organizations and 'get_partner' for details.
Read partnermap://disaster/dashboard before answering questions about current disaster response.
`

	return mcp.NewGetPromptResult(
		"partnermap-aware",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}
