package graph

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	gg "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r2"
)

// LayoutConfig bounds a force-directed layout run. The run stops at
// whichever limit is reached first.
type LayoutConfig struct {
	// Width and Height are the frame the final positions are scaled into.
	Width, Height float64
	MaxIterations int
	// Epsilon is the largest per-node move, in optimizer units, below which
	// the layout counts as settled.
	Epsilon     float64
	MaxDuration time.Duration

	// Seed fixes the initial placement. Zero seeds from the clock, so runs
	// differ.
	Seed int64
	Now  func() time.Time
}

func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:         1000,
		Height:        1000,
		MaxIterations: 300,
		Epsilon:       1e-3,
		MaxDuration:   time.Second,
	}
}

// Eades spring parameters.
const (
	eadesRepulsion = 1.0
	eadesRate      = 0.05
	eadesTheta     = 0.2
)

type StopReason string

const (
	StopSettled    StopReason = "settled"
	StopIterations StopReason = "iterations"
	StopDeadline   StopReason = "deadline"
)

type LayoutResult struct {
	Iterations int
	Reason     StopReason
	Elapsed    time.Duration
}

// orderedGraph fixes node and neighbour iteration order so a seeded run
// places and moves nodes identically every time.
type orderedGraph struct {
	*simple.UndirectedGraph
	nodes []gg.Node
	adj   [][]gg.Node
}

func (g orderedGraph) Nodes() gg.Nodes { return iterator.NewOrderedNodes(g.nodes) }

func (g orderedGraph) From(id int64) gg.Nodes {
	if id < 0 || id >= int64(len(g.adj)) {
		return iterator.NewOrderedNodes(nil)
	}
	return iterator.NewOrderedNodes(g.adj[id])
}

// buildOrdered numbers the nodes of g by sorted id.
func buildOrdered(g *Graph) (orderedGraph, []string) {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	index := make(map[string]int64, len(ids))

	og := orderedGraph{
		UndirectedGraph: simple.NewUndirectedGraph(),
		nodes:           make([]gg.Node, len(ids)),
		adj:             make([][]gg.Node, len(ids)),
	}
	for i, id := range ids {
		index[id] = int64(i)
		og.nodes[i] = simple.Node(i)
		og.AddNode(og.nodes[i])
	}
	for _, e := range g.Edges {
		a, okA := index[e.A]
		b, okB := index[e.B]
		if !okA || !okB || a == b || og.HasEdgeBetween(a, b) {
			continue
		}
		og.SetEdge(og.NewEdge(og.nodes[a], og.nodes[b]))
		og.adj[a] = append(og.adj[a], og.nodes[b])
		og.adj[b] = append(og.adj[b], og.nodes[a])
	}
	return og, ids
}

// runLayout runs the Eades spring embedder until the largest per-node move
// drops below Epsilon, MaxIterations updates are spent or MaxDuration passes,
// then scales the positions into the Width by Height frame.
func runLayout(g *Graph, cfg LayoutConfig) LayoutResult {
	def := DefaultLayoutConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = def.Epsilon
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = def.MaxDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	start := cfg.Now()
	if cfg.Seed == 0 {
		cfg.Seed = start.UnixNano()
	}

	og, ids := buildOrdered(g)
	if len(ids) == 0 {
		return LayoutResult{Reason: StopSettled}
	}

	eades := layout.EadesR2{
		Updates:   cfg.MaxIterations,
		Repulsion: eadesRepulsion,
		Rate:      eadesRate,
		Theta:     eadesTheta,
		Src:       rand.NewPCG(uint64(cfg.Seed), 0),
	}
	opt := layout.NewOptimizerR2(og, eades.Update)

	res := LayoutResult{Reason: StopIterations}
	prev := make([]r2.Vec, len(ids))
	for opt.Update() {
		res.Iterations++
		maxMove := 0.0
		for i := range ids {
			c := opt.Coord2(int64(i))
			maxMove = math.Max(maxMove, r2.Norm(r2.Sub(c, prev[i])))
			prev[i] = c
		}
		if res.Iterations > 1 && maxMove < cfg.Epsilon {
			res.Reason = StopSettled
			break
		}
		if cfg.Now().Sub(start) >= cfg.MaxDuration {
			res.Reason = StopDeadline
			break
		}
	}

	fit(g, ids, prev, cfg.Width, cfg.Height)
	res.Elapsed = cfg.Now().Sub(start)
	return res
}

// fit scales coords onto [0,width]x[0,height] axis by axis. An axis with no
// spread is centred.
func fit(g *Graph, ids []string, coords []r2.Vec, width, height float64) {
	lo := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, c := range coords {
		lo.X, lo.Y = math.Min(lo.X, c.X), math.Min(lo.Y, c.Y)
		hi.X, hi.Y = math.Max(hi.X, c.X), math.Max(hi.Y, c.Y)
	}
	scale := func(v, lo, hi, size float64) float64 {
		if hi-lo == 0 || math.IsNaN(v) {
			return size / 2
		}
		return (v - lo) / (hi - lo) * size
	}
	for i, id := range ids {
		n := g.Nodes[id]
		n.X = scale(coords[i].X, lo.X, hi.X, width)
		n.Y = scale(coords[i].Y, lo.Y, hi.Y, height)
	}
}
