package model

// RelationshipStrength rates how established an edge is.
type RelationshipStrength string

const (
	StrengthStrong       RelationshipStrength = "strong"
	StrengthOccasional   RelationshipStrength = "occasional"
	StrengthEmerging     RelationshipStrength = "emerging"
	StrengthLimited      RelationshipStrength = "limited"
	StrengthAspirational RelationshipStrength = "aspirational"
)

func (s RelationshipStrength) Valid() bool {
	switch s {
	case StrengthStrong, StrengthOccasional, StrengthEmerging, StrengthLimited, StrengthAspirational:
		return true
	}
	return false
}

// RelationshipContext says when an edge is active.
type RelationshipContext string

const (
	ContextSteadyState RelationshipContext = "steady_state"
	ContextDisaster    RelationshipContext = "disaster"
	ContextBoth        RelationshipContext = "both"
)

func (c RelationshipContext) Valid() bool {
	return c == ContextSteadyState || c == ContextDisaster || c == ContextBoth
}

var relationshipTypes = map[string]bool{
	"referrals_send": true, "referrals_receive": true, "co_located": true,
	"shared_space": true, "shared_volunteers": true, "shared_funding": true,
	"joint_programs": true, "information_sharing": true, "disaster_coordination": true,
	"backbone_fiscal_sponsor": true, "training_provider": true, "training_recipient": true,
}

// NetworkEdge is an undirected relationship between two partners.
type NetworkEdge struct {
	ID                   string               `json:"id"`
	PartnerAID           string               `json:"partner_a_id"`
	PartnerBID           string               `json:"partner_b_id"`
	RelationshipType     string               `json:"relationship_type"`
	RelationshipStrength RelationshipStrength `json:"relationship_strength"`
	RelationshipContext  RelationshipContext  `json:"relationship_context"`
	Description          string               `json:"description,omitempty"`
}

// Touches reports whether the edge has partnerID at either end.
func (e NetworkEdge) Touches(partnerID string) bool {
	return e.PartnerAID == partnerID || e.PartnerBID == partnerID
}

// EdgeInput is the create payload for a network edge.
type EdgeInput struct {
	PartnerAID           *string               `json:"partner_a_id,omitempty"`
	PartnerBID           *string               `json:"partner_b_id,omitempty"`
	RelationshipType     *string               `json:"relationship_type,omitempty"`
	RelationshipStrength *RelationshipStrength `json:"relationship_strength,omitempty"`
	RelationshipContext  *RelationshipContext  `json:"relationship_context,omitempty"`
	Description          *string               `json:"description,omitempty"`
}

func (in EdgeInput) Validate() error {
	errs := ValidationErrors{}
	if in.PartnerAID == nil || *in.PartnerAID == "" {
		errs.add("partner_a_id", "First partner is required")
	}
	if in.PartnerBID == nil || *in.PartnerBID == "" {
		errs.add("partner_b_id", "Second partner is required")
	}
	if in.PartnerAID != nil && in.PartnerBID != nil && *in.PartnerAID != "" && *in.PartnerAID == *in.PartnerBID {
		errs.add("partner_b_id", "A partner cannot be connected to itself")
	}
	if in.RelationshipType == nil || !relationshipTypes[*in.RelationshipType] {
		errs.add("relationship_type", "Unknown relationship type")
	}
	if in.RelationshipStrength != nil && !in.RelationshipStrength.Valid() {
		errs.add("relationship_strength", "Unknown relationship strength")
	}
	if in.RelationshipContext != nil && !in.RelationshipContext.Valid() {
		errs.add("relationship_context", "Unknown relationship context")
	}
	return errs.orNil()
}

// Build turns a validated input into an edge, defaulting strength to
// occasional and context to both.
func (in EdgeInput) Build(id string) NetworkEdge {
	e := NetworkEdge{
		ID:                   id,
		PartnerAID:           *in.PartnerAID,
		PartnerBID:           *in.PartnerBID,
		RelationshipType:     *in.RelationshipType,
		RelationshipStrength: StrengthOccasional,
		RelationshipContext:  ContextBoth,
	}
	if in.RelationshipStrength != nil {
		e.RelationshipStrength = *in.RelationshipStrength
	}
	if in.RelationshipContext != nil {
		e.RelationshipContext = *in.RelationshipContext
	}
	if in.Description != nil {
		e.Description = *in.Description
	}
	return e
}

// GraphNodeData is the renderer-agnostic payload of a graph node.
type GraphNodeData struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	PartnerID string `json:"partner_id"`
}

// GraphEdgeData is the renderer-agnostic payload of a graph edge.
type GraphEdgeData struct {
	ID           string               `json:"id"`
	Source       string               `json:"source"`
	Target       string               `json:"target"`
	Relationship string               `json:"relationship"`
	Strength     RelationshipStrength `json:"strength"`
	Context      RelationshipContext  `json:"context"`
}

type GraphNode struct {
	Data GraphNodeData `json:"data"`
}

type GraphEdge struct {
	Data GraphEdgeData `json:"data"`
}

type GraphSummary struct {
	TotalNodes int `json:"total_nodes"`
	TotalEdges int `json:"total_edges"`
}

// NetworkGraph is the node/edge collection served by the graph endpoint.
type NetworkGraph struct {
	Nodes   []GraphNode  `json:"nodes"`
	Edges   []GraphEdge  `json:"edges"`
	Summary GraphSummary `json:"summary"`
}

// NodeAnalysis holds precomputed centrality values for one partner.
type NodeAnalysis struct {
	PartnerID             string  `json:"partner_id"`
	PartnerName           string  `json:"partner_name"`
	DegreeCentrality      float64 `json:"degree_centrality"`
	BetweennessCentrality float64 `json:"betweenness_centrality"`
	EigenvectorCentrality float64 `json:"eigenvector_centrality"`
	CommunityID           *int    `json:"community_id,omitempty"`
	IsIsolated            bool    `json:"is_isolated"`
}

type NetworkMetrics struct {
	TotalNodes        int     `json:"total_nodes"`
	TotalEdges        int     `json:"total_edges"`
	Density           float64 `json:"density"`
	IsConnected       bool    `json:"is_connected"`
	NumComponents     int     `json:"num_components"`
	AverageClustering float64 `json:"average_clustering"`
}

type Community struct {
	ID      int      `json:"id"`
	Members []string `json:"members"`
	Size    int      `json:"size"`
}

type KeyBridge struct {
	PartnerID             string  `json:"partner_id"`
	PartnerName           string  `json:"partner_name"`
	BetweennessCentrality float64 `json:"betweenness_centrality"`
	DegreeCentrality      float64 `json:"degree_centrality"`
	EigenvectorCentrality float64 `json:"eigenvector_centrality"`
}

// NetworkAnalysis is a read-only projection sourced from elsewhere; nothing
// in this module computes it.
type NetworkAnalysis struct {
	NodeAnalysis   []NodeAnalysis `json:"node_analysis"`
	NetworkMetrics NetworkMetrics `json:"network_metrics"`
	Communities    []Community    `json:"communities"`
	IsolatedNodes  []string       `json:"isolated_nodes"`
	KeyBridges     []KeyBridge    `json:"key_bridges"`
}

// Node returns the analysis row for partnerID.
func (a NetworkAnalysis) Node(partnerID string) (NodeAnalysis, bool) {
	for _, n := range a.NodeAnalysis {
		if n.PartnerID == partnerID {
			return n, true
		}
	}
	return NodeAnalysis{}, false
}

// PartnerConnections lists the edges touching one partner.
type PartnerConnections struct {
	PartnerID        string        `json:"partner_id"`
	TotalConnections int           `json:"total_connections"`
	Connections      []NetworkEdge `json:"connections"`
}
