package tui

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/rmax-ai/partnermap/pkg/mapview"
	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/query"
)

const sidebarWidth = 40

// mapPage draws partner markers on a character grid. Tab moves the hover
// between visible markers, enter selects the hovered partner.
type mapPage struct {
	e     *env
	layer *mapview.Layer
	geo   *query.Query[*geojson.FeatureCollection]

	// partner-scoped, disabled while nothing is selected
	detail      *query.Query[model.Partner]
	connections *query.Query[model.PartnerConnections]

	width, height int
	shown         *geojson.FeatureCollection
	vp            mapview.Viewport
	visible       []mapview.Cell
	hover         int
}

func newMapPage(e *env) *mapPage {
	p := &mapPage{e: e, layer: mapview.NewLayer(e.st), width: 100, height: 24, hover: -1}
	p.layer.OnChange(e.notify)
	p.geo = watch(e, query.KeyPartnersGeoJSON, e.raw.PartnersGeoJSON)

	sel := e.st.SelectedPartner()
	id := ""
	if sel != nil {
		id = sel.ID
	}
	p.detail = query.New(e.cache, query.PartnerKey(id), func(ctx context.Context, k query.Key) (model.Partner, error) {
		return e.raw.GetPartner(ctx, k[len(k)-1])
	}, query.Enabled(sel != nil), query.OnChange(e.notify))
	p.connections = query.New(e.cache, query.ConnectionsKey(id), func(ctx context.Context, k query.Key) (model.PartnerConnections, error) {
		return e.raw.PartnerConnections(ctx, k[len(k)-2])
	}, query.Enabled(sel != nil), query.OnChange(e.notify))
	p.sync()
	return p
}

// sync applies the latest marker data and rebinds the partner queries to the
// current selection.
func (p *mapPage) sync() {
	if r := p.geo.Result(); r.HasData && r.Data != p.shown {
		p.shown = r.Data
		p.layer.SetData(r.Data)
	}

	if sel := p.e.st.SelectedPartner(); sel != nil {
		p.detail.SetKey(query.PartnerKey(sel.ID))
		p.connections.SetKey(query.ConnectionsKey(sel.ID))
		p.detail.SetEnabled(true)
		p.connections.SetEnabled(true)
	} else {
		p.detail.SetEnabled(false)
		p.connections.SetEnabled(false)
	}
	p.place()
}

// place lays the markers out on the grid for the current page size and
// map viewport. A hover that fell off the grid is dropped.
func (p *mapPage) place() {
	snap := p.e.st.Snapshot()
	w := p.width - 4
	if snap.SidebarOpen {
		w -= sidebarWidth + 4
	}
	p.vp = mapview.Viewport{Width: max(w, 20), Height: max(p.height-2, 1), Center: snap.MapCenter, Zoom: snap.MapZoom}
	p.visible = p.vp.Place(p.layer.Markers())
	if p.hover >= len(p.visible) {
		p.hover = -1
	}
}

func (p *mapPage) Capturing() bool { return false }

func (p *mapPage) Close() {
	p.layer.Close()
	p.geo.Close()
	p.detail.Close()
	p.connections.Close()
}

func (p *mapPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case refreshMsg:
		p.sync()
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
		p.place()
	case tea.KeyMsg:
		snap := p.e.st.Snapshot()
		step := 360 / math.Pow(2, snap.MapZoom) / 8
		c := snap.MapCenter
		switch msg.String() {
		case "left", "h":
			p.e.st.SetMapCenter([2]float64{c[0] - step, c[1]})
		case "right", "l":
			p.e.st.SetMapCenter([2]float64{c[0] + step, c[1]})
		case "up", "k":
			p.e.st.SetMapCenter([2]float64{c[0], c[1] + step/2})
		case "down", "j":
			p.e.st.SetMapCenter([2]float64{c[0], c[1] - step/2})
		case "+", "=":
			p.e.st.SetMapZoom(snap.MapZoom + 1)
		case "-":
			p.e.st.SetMapZoom(snap.MapZoom - 1)
		case "tab":
			if len(p.visible) == 0 {
				p.hover = -1
				p.layer.Leave()
				break
			}
			p.hover = (p.hover + 1) % len(p.visible)
			p.layer.Hover(p.visible[p.hover].Marker.Ref.ID)
		case "enter":
			if p.hover >= 0 && p.hover < len(p.visible) {
				p.layer.Click(p.visible[p.hover].Marker.Ref.ID)
			}
		case "esc":
			p.e.st.SetSelectedPartner(nil)
		}
		p.place()
	}
	return nil
}

func (p *mapPage) View(vc viewCtx) string {
	r := p.geo.Result()
	if !r.HasData {
		return paneStyle.Render(render(r, vc, func(*geojson.FeatureCollection) string { return "" }))
	}

	grid := make([][]string, p.vp.Height)
	for i := range grid {
		grid[i] = make([]string, p.vp.Width)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	paint := p.layer.Paint()
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(paint.Fill))
	var selID string
	if vc.snap.SelectedPartner != nil {
		selID = vc.snap.SelectedPartner.ID
	}
	for i, cell := range p.visible {
		glyph := "●"
		switch {
		case cell.Marker.Ref.ID == selID:
			glyph = "◆"
		case i == p.hover && p.layer.Cursor() == mapview.CursorPointer:
			glyph = "◉"
		}
		grid[cell.Row][cell.Col] = dot.Render(glyph)
	}

	lines := make([]string, len(grid))
	for i := range grid {
		lines[i] = strings.Join(grid[i], "")
	}
	caption := subtleStyle.Render(fmt.Sprintf("%d of %d partners in view • zoom %.0f • arrows pan • +/- zoom • tab/enter select",
		len(p.visible), len(p.layer.Markers()), vc.snap.MapZoom))
	if p.hover >= 0 {
		caption = boldStyle.Render(p.visible[p.hover].Marker.Ref.Name) + "  " + caption
	}
	mapPane := paneStyle.Render(strings.Join(lines, "\n") + "\n" + caption)

	if !vc.snap.SidebarOpen {
		return mapPane
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, mapPane, paneStyle.Width(sidebarWidth).Render(p.sidebar(vc)))
}

func (p *mapPage) sidebar(vc viewCtx) string {
	if vc.snap.SelectedPartner == nil {
		return headerStyle.Render("Partner") + "\n" + subtleStyle.Render("Select a marker to see details.")
	}
	out := headerStyle.Render("Partner") + "\n" + render(p.detail.Result(), vc, func(pt model.Partner) string {
		s := boldStyle.Render(pt.OrganizationName) + "\n" +
			subtleStyle.Render(pt.PartnerID+" • "+string(pt.OrganizationType)) + "\n"
		if pt.PhysicalAddress != "" {
			s += pt.PhysicalAddress + "\n"
		}
		if pt.MissionStatement != "" {
			s += "\n" + pt.MissionStatement + "\n"
		}
		return s
	})
	out += "\n" + render(p.connections.Result(), vc, func(c model.PartnerConnections) string {
		return fmt.Sprintf("%d connections\n", c.TotalConnections)
	})
	return out + subtleStyle.Render("esc clears selection")
}
