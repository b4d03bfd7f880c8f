package graph

import (
	"math"
	"testing"
	"time"

	"github.com/rmax-ai/partnermap/pkg/fixture"
	"github.com/rmax-ai/partnermap/pkg/model"
)

func fixtureProjection(t *testing.T) *Projection {
	t.Helper()
	st := fixture.New()
	proj := NewProjection()
	proj.SetNetwork(st.NetworkGraph())
	a := st.NetworkAnalysis()
	proj.SetAnalysis(&a)
	return proj
}

func TestSizeFor(t *testing.T) {
	tests := []struct {
		c, want float64
	}{
		{0, 20},
		{1, 60},
		{0.5, 40},
		{-3, 20},
		{7, 60},
	}
	for _, tt := range tests {
		if got := SizeFor(tt.c); got != tt.want {
			t.Errorf("SizeFor(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
	if SizeFor(0.3) >= SizeFor(0.31) {
		t.Error("SizeFor is not increasing")
	}
}

func TestProjection_SetNetwork(t *testing.T) {
	g := fixtureProjection(t).GetGraph()
	if len(g.Nodes) != 12 {
		t.Fatalf("Expected 12 nodes, got %d", len(g.Nodes))
	}
	if len(g.Edges) != 14 {
		t.Errorf("Expected 14 edges, got %d", len(g.Edges))
	}
	node := g.Nodes["1"]
	if node.PartnerID != "PTR-001" {
		t.Errorf("node 1 partner id = %s", node.PartnerID)
	}
	if node.Size <= MinSize || node.Size > MaxSize {
		t.Errorf("node 1 size = %v, want within (20,60]", node.Size)
	}
}

func TestProjection_DropsDanglingAndDuplicateEdges(t *testing.T) {
	ng := model.NetworkGraph{
		Nodes: []model.GraphNode{{Data: model.GraphNodeData{ID: "a"}}, {Data: model.GraphNodeData{ID: "b"}}},
		Edges: []model.GraphEdge{
			{Data: model.GraphEdgeData{ID: "e1", Source: "a", Target: "b"}},
			{Data: model.GraphEdgeData{ID: "e2", Source: "b", Target: "a"}},
			{Data: model.GraphEdgeData{ID: "e3", Source: "a", Target: "ghost"}},
		},
	}
	proj := NewProjection()
	proj.SetNetwork(ng)

	g := proj.GetGraph()
	if len(g.Edges) != 1 || g.Edges[0].ID != "e1" {
		t.Errorf("Edges = %+v, want only e1", g.Edges)
	}
	if nb := g.Neighbors("b"); len(nb) != 1 || nb[0] != "a" {
		t.Errorf("Neighbors(b) = %v", nb)
	}
}

func TestProjection_DefaultSizeWithoutAnalysis(t *testing.T) {
	proj := NewProjection()
	proj.SetNetwork(fixture.New().NetworkGraph())

	for id, n := range proj.GetGraph().Nodes {
		if n.Centrality != DefaultCentrality || n.Size != SizeFor(DefaultCentrality) {
			t.Errorf("node %s: centrality %v size %v, want default", id, n.Centrality, n.Size)
		}
	}

	proj.SetAnalysis(&model.NetworkAnalysis{NodeAnalysis: []model.NodeAnalysis{{PartnerID: "2", DegreeCentrality: 0.9}}})
	g := proj.GetGraph()
	if g.Nodes["2"].Size != SizeFor(0.9) {
		t.Errorf("node 2 size = %v", g.Nodes["2"].Size)
	}
	if g.Nodes["3"].Size != SizeFor(DefaultCentrality) {
		t.Errorf("node without analysis row size = %v", g.Nodes["3"].Size)
	}
}

func TestProjection_Selection(t *testing.T) {
	proj := fixtureProjection(t)

	if proj.Select("missing") {
		t.Error("Select(missing) = true")
	}
	if !proj.Select("4") {
		t.Fatal("Select(4) = false")
	}
	if n, ok := proj.Selected(); !ok || n.ID != "4" {
		t.Errorf("Selected() = %+v, %v", n, ok)
	}

	proj.Deselect()
	if _, ok := proj.Selected(); ok {
		t.Error("selection survived Deselect")
	}

	proj.Select("4")
	proj.SetNetwork(model.NetworkGraph{})
	if _, ok := proj.Selected(); ok {
		t.Error("selection survived removal of its node")
	}
}

func TestLayout_StaysInFrameAndStops(t *testing.T) {
	proj := fixtureProjection(t)
	cfg := DefaultLayoutConfig()
	cfg.Seed = 42

	res := proj.Layout(cfg)
	if res.Iterations == 0 || res.Iterations > cfg.MaxIterations {
		t.Errorf("Iterations = %d", res.Iterations)
	}
	for id, n := range proj.GetGraph().Nodes {
		if n.X < 0 || n.X > cfg.Width || n.Y < 0 || n.Y > cfg.Height {
			t.Errorf("node %s at (%v,%v) outside frame", id, n.X, n.Y)
		}
	}
}

func TestLayout_SameSeedSamePositions(t *testing.T) {
	a, b := fixtureProjection(t), fixtureProjection(t)
	cfg := DefaultLayoutConfig()
	cfg.Seed = 7
	a.Layout(cfg)
	b.Layout(cfg)

	ga, gb := a.GetGraph(), b.GetGraph()
	for id, n := range ga.Nodes {
		if n.X != gb.Nodes[id].X || n.Y != gb.Nodes[id].Y {
			t.Fatalf("node %s differs between runs with one seed", id)
		}
	}
}

func TestLayout_DeadlineStopsRun(t *testing.T) {
	proj := fixtureProjection(t)
	clock := time.Unix(0, 0)
	cfg := DefaultLayoutConfig()
	cfg.Seed = 1
	cfg.Epsilon = 1e-12
	cfg.MaxDuration = time.Second
	cfg.Now = func() time.Time {
		clock = clock.Add(300 * time.Millisecond)
		return clock
	}

	res := proj.Layout(cfg)
	if res.Reason != StopDeadline {
		t.Errorf("Reason = %s, want deadline", res.Reason)
	}
	if res.Iterations >= cfg.MaxIterations {
		t.Errorf("Iterations = %d, deadline did not cut the run", res.Iterations)
	}
}

func TestLayout_EmptyGraph(t *testing.T) {
	res := NewProjection().Layout(DefaultLayoutConfig())
	if res.Reason != StopSettled || res.Iterations != 0 {
		t.Errorf("Layout(empty) = %+v", res)
	}
}

func TestLayout_EdgesPullNeighboursTogether(t *testing.T) {
	proj := fixtureProjection(t)
	cfg := DefaultLayoutConfig()
	cfg.Seed = 11
	proj.Layout(cfg)

	g := proj.GetGraph()
	dist := func(a, b *Node) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

	var edgeSum float64
	for _, e := range g.Edges {
		edgeSum += dist(g.Nodes[e.A], g.Nodes[e.B])
	}
	var pairSum float64
	var pairs int
	for _, a := range g.Nodes {
		for _, b := range g.Nodes {
			if a.ID < b.ID {
				pairSum += dist(a, b)
				pairs++
			}
		}
	}
	if edgeAvg, pairAvg := edgeSum/float64(len(g.Edges)), pairSum/float64(pairs); edgeAvg >= pairAvg {
		t.Errorf("mean edge length %.1f not below mean pair distance %.1f", edgeAvg, pairAvg)
	}
}
