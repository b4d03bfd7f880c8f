package graph

import (
	"sync"

	"github.com/rmax-ai/partnermap/pkg/model"
)

// Projection maintains the in-memory network view: elements built from the
// served graph, sizes from the latest analysis, layout positions and the
// selected node.
type Projection struct {
	mu       sync.RWMutex
	graph    *Graph
	analysis *model.NetworkAnalysis
	selected string
}

func NewProjection() *Projection {
	return &Projection{graph: NewGraph()}
}

// SetNetwork replaces the elements with ng. Edges whose endpoints are not
// nodes of ng are dropped, as are duplicate edges between the same pair.
// The selection is cleared if its node is gone.
func (p *Projection) SetNetwork(ng model.NetworkGraph) {
	p.mu.Lock()
	defer p.mu.Unlock()

	g := NewGraph()
	for _, n := range ng.Nodes {
		g.AddNode(&Node{
			ID:        n.Data.ID,
			PartnerID: n.Data.PartnerID,
			Label:     n.Data.Label,
			Type:      n.Data.Type,
		})
	}
	for _, e := range ng.Edges {
		if _, ok := g.Nodes[e.Data.Source]; !ok {
			continue
		}
		if _, ok := g.Nodes[e.Data.Target]; !ok {
			continue
		}
		g.AddEdge(&Edge{
			ID:       e.Data.ID,
			A:        e.Data.Source,
			B:        e.Data.Target,
			Type:     e.Data.Relationship,
			Strength: e.Data.Strength,
			Context:  e.Data.Context,
		})
	}
	p.graph = g
	if _, ok := g.Nodes[p.selected]; !ok {
		p.selected = ""
	}
	p.sizeLocked()
}

// SetAnalysis records centrality data; nil means none is available and every
// node falls back to the default size.
func (p *Projection) SetAnalysis(a *model.NetworkAnalysis) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.analysis = a
	p.sizeLocked()
}

// sizeLocked recomputes node sizes. Must be called with p.mu held.
func (p *Projection) sizeLocked() {
	for id, n := range p.graph.Nodes {
		n.Centrality = DefaultCentrality
		n.Community = nil
		if p.analysis == nil {
			n.Size = SizeFor(n.Centrality)
			continue
		}
		if row, ok := p.analysis.Node(id); ok {
			n.Centrality = row.DegreeCentrality
			n.Community = row.CommunityID
		}
		n.Size = SizeFor(n.Centrality)
	}
}

// Layout positions the nodes and returns how the run ended.
func (p *Projection) Layout(cfg LayoutConfig) LayoutResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return runLayout(p.graph, cfg)
}

// Select records id as the selected node. It reports false for ids that are
// not in the graph.
func (p *Projection) Select(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.graph.Nodes[id]; !ok {
		return false
	}
	p.selected = id
	return true
}

// Deselect clears the selection, as a click on empty canvas does.
func (p *Projection) Deselect() {
	p.mu.Lock()
	p.selected = ""
	p.mu.Unlock()
}

// Selected returns the selected node.
func (p *Projection) Selected() (Node, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n, ok := p.graph.Nodes[p.selected]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// GetGraph returns a snapshot of the current graph.
func (p *Projection) GetGraph() *Graph {
	p.mu.RLock()
	defer p.mu.RUnlock()

	newGraph := NewGraph()
	for k, v := range p.graph.Nodes {
		n := *v
		newGraph.Nodes[k] = &n
	}
	for _, e := range p.graph.Edges {
		edge := *e
		newGraph.Edges = append(newGraph.Edges, &edge)
	}
	return newGraph
}
