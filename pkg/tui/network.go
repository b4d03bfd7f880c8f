package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/partnermap/pkg/graph"
	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/query"
)

type layoutMsg struct {
	res graph.LayoutResult
}

// networkPage lays out the collaboration graph and lists nodes by size.
// Tab cycles the selection, which is mirrored into the selected partner.
type networkPage struct {
	e        *env
	proj     *graph.Projection
	network  *query.Query[model.NetworkGraph]
	analysis *query.Query[model.NetworkAnalysis]

	seenNetwork  uint64
	seenAnalysis uint64
	laidOut      bool
	layout       graph.LayoutResult
	layoutCfg    graph.LayoutConfig
}

func newNetworkPage(e *env) *networkPage {
	return &networkPage{
		e:         e,
		proj:      graph.NewProjection(),
		network:   watch(e, query.KeyNetworkGraph, e.raw.NetworkGraph),
		analysis:  watch(e, query.KeyNetworkAnalysis, e.raw.NetworkAnalysis),
		layoutCfg: graph.DefaultLayoutConfig(),
	}
}

func (p *networkPage) Capturing() bool { return false }

func (p *networkPage) Close() {
	p.network.Close()
	p.analysis.Close()
}

// sync feeds new results into the projection and returns a layout command
// when the element set changed.
func (p *networkPage) sync() tea.Cmd {
	var relayout bool
	if r := p.network.Result(); r.HasData && r.Version != p.seenNetwork {
		p.seenNetwork = r.Version
		p.proj.SetNetwork(r.Data)
		relayout = true
	}
	if r := p.analysis.Result(); r.HasData && r.Version != p.seenAnalysis {
		p.seenAnalysis = r.Version
		a := r.Data
		p.proj.SetAnalysis(&a)
	}
	if !relayout {
		return nil
	}
	proj, cfg := p.proj, p.layoutCfg
	return func() tea.Msg {
		return layoutMsg{res: proj.Layout(cfg)}
	}
}

func (p *networkPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case refreshMsg:
		return p.sync()
	case layoutMsg:
		p.laidOut = true
		p.layout = msg.res
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			p.selectNext()
		case "esc":
			p.proj.Deselect()
			p.e.st.SetSelectedPartner(nil)
		}
	}
	return nil
}

// ranked returns the nodes largest first.
func ranked(g *graph.Graph) []*graph.Node {
	nodes := make([]*graph.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Size != nodes[j].Size {
			return nodes[i].Size > nodes[j].Size
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

func (p *networkPage) selectNext() {
	nodes := ranked(p.proj.GetGraph())
	if len(nodes) == 0 {
		return
	}
	next := 0
	if cur, ok := p.proj.Selected(); ok {
		for i, n := range nodes {
			if n.ID == cur.ID {
				next = (i + 1) % len(nodes)
				break
			}
		}
	}
	n := nodes[next]
	p.proj.Select(n.ID)
	p.e.st.SetSelectedPartner(&model.PartnerRef{ID: n.ID, PartnerID: n.PartnerID, Name: n.Label, Type: n.Type})
}

func (p *networkPage) View(vc viewCtx) string {
	r := p.network.Result()
	if !r.HasData {
		return paneStyle.Render(render(r, vc, func(model.NetworkGraph) string { return "" }))
	}
	g := p.proj.GetGraph()
	sel, hasSel := p.proj.Selected()

	listW := 44
	canvasW := max(vc.width-listW-8, 20)
	canvas := paneStyle.Render(p.canvas(g, sel.ID, canvasW, vc.height-2, vc))

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d partners • %d connections", len(g.Nodes), len(g.Edges))) + "\n")
	for _, n := range ranked(g) {
		line := fmt.Sprintf("%-26.26s %4.2f", n.Label, n.Centrality)
		if n.Community != nil {
			line += fmt.Sprintf("  c%d", *n.Community)
		}
		if hasSel && n.ID == sel.ID {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if hasSel {
		names := []string{}
		for _, id := range g.Neighbors(sel.ID) {
			if nb, ok := g.Nodes[id]; ok {
				names = append(names, nb.Label)
			}
		}
		sort.Strings(names)
		b.WriteString("\n" + boldStyle.Render(sel.Label) + " works with:\n" + strings.Join(names, "\n") + "\n")
	}
	if a := p.analysis.Result(); a.Status == query.StatusError && !a.HasData {
		b.WriteString(errorStyle.Render("Centrality unavailable, using default sizes") + "\n")
	}
	b.WriteString(subtleStyle.Render("tab select • esc clear"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, paneStyle.Width(listW).Render(b.String()))
}

// canvas scales layout positions onto a character grid, edges first.
func (p *networkPage) canvas(g *graph.Graph, selected string, w, h int, vc viewCtx) string {
	if !p.laidOut {
		return vc.spinner + " Laying out..."
	}
	h = max(h, 5)
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", w))
	}
	cell := func(x, y float64) (int, int) {
		c := int(math.Round(x / p.layoutCfg.Width * float64(w-1)))
		r := int(math.Round(y / p.layoutCfg.Height * float64(h-1)))
		return min(max(c, 0), w-1), min(max(r, 0), h-1)
	}

	for _, e := range g.Edges {
		a, b := g.Nodes[e.A], g.Nodes[e.B]
		ax, ay := cell(a.X, a.Y)
		bx, by := cell(b.X, b.Y)
		steps := max(abs(bx-ax), abs(by-ay))
		for s := 1; s < steps; s++ {
			x := ax + (bx-ax)*s/steps
			y := ay + (by-ay)*s/steps
			grid[y][x] = '·'
		}
	}
	for _, n := range g.Nodes {
		x, y := cell(n.X, n.Y)
		switch {
		case n.ID == selected:
			grid[y][x] = '@'
		case n.Size >= (graph.MinSize+graph.MaxSize)/2:
			grid[y][x] = 'O'
		default:
			grid[y][x] = 'o'
		}
	}

	lines := make([]string, h)
	for i := range grid {
		lines[i] = string(grid[i])
	}
	caption := subtleStyle.Render(fmt.Sprintf("layout %s after %d iterations", p.layout.Reason, p.layout.Iterations))
	return accent(vc.snap.Mode).Render(strings.Join(lines, "\n")) + "\n" + caption
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
