package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/query"
	"github.com/rmax-ai/partnermap/pkg/state"
)

// dashboardPage shows impact metrics in steady state and the response
// overview in disaster mode. Both sets of queries stay mounted so toggling
// the mode does not refetch.
type dashboardPage struct {
	summary   *query.Query[model.MetricsSummary]
	readiness *query.Query[model.ReadinessScore]
	equity    *query.Query[model.EquityAssessment]
	dashboard *query.Query[model.DisasterDashboard]
	caps      *query.Query[model.CapabilitiesSummary]
}

func newDashboardPage(e *env) *dashboardPage {
	return &dashboardPage{
		summary:   watch(e, query.KeyMetricsSummary, e.raw.MetricsSummary),
		readiness: watch(e, query.KeyReadiness, e.raw.ReadinessScore),
		equity:    watch(e, query.KeyEquity, e.raw.Equity),
		dashboard: watch(e, query.KeyDisasterDashboard, e.raw.DisasterDashboard),
		caps:      watch(e, query.KeyCapabilitiesSummary, e.raw.CapabilitiesSummary),
	}
}

func (p *dashboardPage) Update(tea.Msg) tea.Cmd { return nil }
func (p *dashboardPage) Capturing() bool        { return false }

func (p *dashboardPage) Close() {
	p.summary.Close()
	p.readiness.Close()
	p.equity.Close()
	p.dashboard.Close()
	p.caps.Close()
}

func (p *dashboardPage) View(vc viewCtx) string {
	w := max(vc.width/2-4, 30)
	if vc.snap.Mode == state.ModeDisaster {
		left := paneStyle.Width(w).Render(headerStyle.Render("Operational status") + "\n" +
			render(p.dashboard.Result(), vc, func(d model.DisasterDashboard) string {
				return row("Disaster-capable partners", d.TotalDisasterCapablePartners) +
					row("Capabilities", d.TotalCapabilities) +
					row("Status reports", d.ActiveStatusReports) +
					row("Operational", d.StatusBreakdown.Operational) +
					row("Limited", d.StatusBreakdown.Limited) +
					row("Not operational", d.StatusBreakdown.NotOperational) +
					row("Unknown", d.StatusBreakdown.Unknown)
			}))
		right := paneStyle.Width(w).Render(headerStyle.Render("Capabilities") + "\n" +
			render(p.caps.Result(), vc, func(c model.CapabilitiesSummary) string {
				return countList(c)
			}))
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	left := paneStyle.Width(w).Render(headerStyle.Render("Impact") + "\n" +
		render(p.summary.Result(), vc, func(s model.MetricsSummary) string {
			types := make([]string, 0, len(s))
			for t := range s {
				types = append(types, string(t))
			}
			sort.Strings(types)
			var b strings.Builder
			for _, t := range types {
				m := s[model.MetricType(t)]
				b.WriteString(row(t, fmt.Sprintf("%.0f (%d reports)", m.Total, m.Count)))
			}
			return b.String()
		}))
	right := paneStyle.Width(w).Render(headerStyle.Render("Readiness & equity") + "\n" +
		render(p.readiness.Result(), vc, func(r model.ReadinessScore) string {
			n := r.NetworkReadiness
			return row("Partners", n.TotalPartners) +
				row("Disaster capabilities", n.TotalDisasterCapabilities) +
				row("Capabilities per partner", fmt.Sprintf("%.2f", n.AverageCapabilitiesPerPartner))
		}) +
		render(p.equity.Result(), vc, func(e model.EquityAssessment) string {
			return row("Equity score", fmt.Sprintf("%.2f", e.Summary.EquityScore)) +
				row("Disparity ratio", fmt.Sprintf("%.2f", e.Summary.DisparityRatio))
		}))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func countList(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(row(k, counts[k]))
	}
	return b.String()
}
