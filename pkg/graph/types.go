package graph

import "github.com/rmax-ai/partnermap/pkg/model"

// Node sizes are mapped from degree centrality in [0,1] onto [MinSize, MaxSize].
const (
	MinSize           = 20.0
	MaxSize           = 60.0
	DefaultCentrality = 0.1
)

// Node is one partner in the rendered network.
type Node struct {
	ID         string  `json:"id"`
	PartnerID  string  `json:"partner_id"`
	Label      string  `json:"label"`
	Type       string  `json:"type"`
	Centrality float64 `json:"centrality"`
	Size       float64 `json:"size"`
	Community  *int    `json:"community,omitempty"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// Edge is an undirected relationship between two nodes.
type Edge struct {
	ID       string                     `json:"id"`
	A        string                     `json:"a"`
	B        string                     `json:"b"`
	Type     string                     `json:"type"`
	Strength model.RelationshipStrength `json:"strength"`
	Context  model.RelationshipContext  `json:"context"`
}

// Graph is the element set handed to a renderer.
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
	Edges []*Edge          `json:"edges"`
}

func NewGraph() *Graph {
	return &Graph{
		Nodes: make(map[string]*Node),
		Edges: make([]*Edge, 0),
	}
}

func (g *Graph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
}

// AddEdge adds e unless an edge between the same pair already exists, in
// either direction.
func (g *Graph) AddEdge(e *Edge) bool {
	for _, x := range g.Edges {
		if (x.A == e.A && x.B == e.B) || (x.A == e.B && x.B == e.A) {
			return false
		}
	}
	g.Edges = append(g.Edges, e)
	return true
}

// Neighbors returns the ids adjacent to id.
func (g *Graph) Neighbors(id string) []string {
	var out []string
	for _, e := range g.Edges {
		switch id {
		case e.A:
			out = append(out, e.B)
		case e.B:
			out = append(out, e.A)
		}
	}
	return out
}

// SizeFor maps a centrality value onto the node size range. Values outside
// [0,1] are clamped.
func SizeFor(c float64) float64 {
	c = min(max(c, 0), 1)
	return MinSize + c*(MaxSize-MinSize)
}
