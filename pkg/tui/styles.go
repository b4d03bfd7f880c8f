package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/partnermap/pkg/mapview"
	"github.com/rmax-ai/partnermap/pkg/query"
	"github.com/rmax-ai/partnermap/pkg/state"
)

// Styles
var (
	subtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	boldStyle     = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(28)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("241"))
)

// accent is the mode colour, shared with the map markers.
func accent(m state.Mode) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(mapview.FillColor(m))).Bold(true)
}

func activeTab(m state.Mode) lipgloss.Style {
	return tabStyle.Foreground(lipgloss.Color(mapview.StrokeColor)).Background(lipgloss.Color(mapview.FillColor(m)))
}

func row(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value) + "\n"
}

// viewCtx is what every page needs to render one frame.
type viewCtx struct {
	width   int
	height  int
	spinner string
	snap    state.Snapshot
}

// render shows data whenever there is some. A failed refresh keeps it on
// screen with a note; the error replaces the spinner only when nothing was
// ever loaded.
func render[T any](r query.Result[T], vc viewCtx, body func(T) string) string {
	switch {
	case r.HasData:
		out := body(r.Data)
		if r.Status == query.StatusError {
			out += "\n" + errorStyle.Render(fmt.Sprintf("Refresh failed: %v", r.Err))
		}
		return out
	case r.Status == query.StatusError:
		return errorStyle.Render(fmt.Sprintf("Error: %v", r.Err))
	case r.Status == query.StatusIdle:
		return subtleStyle.Render("Nothing selected.")
	default:
		return vc.spinner + " Loading..."
	}
}
