package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/query"
	"github.com/rmax-ai/partnermap/pkg/state"
)

type homePage struct {
	coverage  *query.Query[model.Coverage]
	dashboard *query.Query[model.DisasterDashboard]
	events    *query.Query[model.ActiveEvents]
}

func newHomePage(e *env) *homePage {
	return &homePage{
		coverage:  watch(e, query.KeyCoverage, e.raw.Coverage),
		dashboard: watch(e, query.KeyDisasterDashboard, e.raw.DisasterDashboard),
		events:    watch(e, query.KeyActiveEvents, e.raw.ActiveEvents),
	}
}

func (p *homePage) Update(tea.Msg) tea.Cmd { return nil }
func (p *homePage) Capturing() bool        { return false }

func (p *homePage) Close() {
	p.coverage.Close()
	p.dashboard.Close()
	p.events.Close()
}

func (p *homePage) View(vc viewCtx) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Community Partner Network") + "\n")
	b.WriteString("Partner organizations, the services they offer and how they work together.\n\n")

	b.WriteString(render(p.coverage.Result(), vc, func(c model.Coverage) string {
		return row("Partners", c.TotalPartners) +
			row("Services", c.TotalServices) +
			row("Services per partner", fmt.Sprintf("%.2f", c.AverageServicesPerPartner))
	}))

	if vc.snap.Mode == state.ModeDisaster {
		b.WriteString("\n" + accent(vc.snap.Mode).Render("Disaster response") + "\n")
		b.WriteString(render(p.events.Result(), vc, func(ev model.ActiveEvents) string {
			if len(ev.ActiveEvents) == 0 {
				return subtleStyle.Render("No active events.") + "\n"
			}
			return row("Active events", strings.Join(ev.ActiveEvents, ", "))
		}))
		b.WriteString(render(p.dashboard.Result(), vc, func(d model.DisasterDashboard) string {
			return row("Disaster-capable partners", d.TotalDisasterCapablePartners) +
				row("Operational", d.StatusBreakdown.Operational)
		}))
	}

	return paneStyle.Width(max(vc.width-4, 20)).Render(b.String())
}
