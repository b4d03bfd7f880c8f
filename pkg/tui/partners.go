package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/query"
)

// partnersPage is the searchable directory. The search text and category
// filter live in the state store so they survive navigation.
type partnersPage struct {
	e       *env
	input   textinput.Model
	list    viewport.Model
	results *query.Query[model.SearchResult]
	cursor  int
}

func searchParams(e *env) model.SearchParams {
	snap := e.st.Snapshot()
	return model.SearchParams{Query: snap.SearchQuery, ServiceCategory: snap.ServiceFilter}
}

func newPartnersPage(e *env) *partnersPage {
	ti := textinput.New()
	ti.Placeholder = "name or address"
	ti.Prompt = "/ "
	ti.SetValue(e.st.Snapshot().SearchQuery)

	p := &partnersPage{e: e, input: ti, list: viewport.New(96, 20)}
	p.results = query.New(e.cache, query.SearchKey(searchParams(e)), func(ctx context.Context, k query.Key) (model.SearchResult, error) {
		params, ok := query.SearchParamsFromKey(k)
		if !ok {
			return model.SearchResult{}, fmt.Errorf("not a search key: %s", k)
		}
		return e.raw.SearchPartners(ctx, params)
	}, query.OnChange(e.notify))
	p.fill()
	return p
}

func (p *partnersPage) Capturing() bool { return p.input.Focused() }

func (p *partnersPage) Close() { p.results.Close() }

// nextCategory cycles through no filter and then each category in display order.
func nextCategory(c model.ServiceCategory) model.ServiceCategory {
	if c == "" {
		return model.ServiceCategoryOrder[0]
	}
	for i, x := range model.ServiceCategoryOrder {
		if x == c && i+1 < len(model.ServiceCategoryOrder) {
			return model.ServiceCategoryOrder[i+1]
		}
	}
	return ""
}

func (p *partnersPage) Update(msg tea.Msg) tea.Cmd {
	defer p.fill()

	switch msg := msg.(type) {
	case refreshMsg:
		p.results.SetKey(query.SearchKey(searchParams(p.e)))
		return nil
	case tea.WindowSizeMsg:
		p.list.Width = max(msg.Width-4, 20)
		p.list.Height = max(msg.Height-4, 3)
		return nil
	case tea.KeyMsg:
		if p.input.Focused() {
			switch msg.String() {
			case "enter", "esc":
				p.input.Blur()
				return nil
			}
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			p.e.st.SetSearchQuery(p.input.Value())
			p.cursor = 0
			return cmd
		}
		switch msg.String() {
		case "/":
			p.input.Focus()
			return textinput.Blink
		case "c":
			p.e.st.SetServiceFilter(nextCategory(p.e.st.Snapshot().ServiceFilter))
			p.cursor = 0
		case "down", "j":
			if r := p.results.Result(); p.cursor < len(r.Data.Results)-1 {
				p.cursor++
			}
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "enter":
			r := p.results.Result()
			if p.cursor < len(r.Data.Results) {
				ref := r.Data.Results[p.cursor].Ref()
				p.e.st.SetSelectedPartner(&ref)
			}
		}
	}
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

// fill writes the current result rows into the list.
func (p *partnersPage) fill() {
	r := p.results.Result()
	switch {
	case !r.HasData:
		p.list.SetContent("")
		return
	case r.Data.Count == 0:
		p.list.SetContent(subtleStyle.Render("No partners match."))
		return
	}

	snap := p.e.st.Snapshot()
	var b strings.Builder
	for i, pt := range r.Data.Results {
		line := fmt.Sprintf("%-8s %-40.40s %-12s %s", pt.PartnerID, pt.OrganizationName, pt.OrganizationType, pt.PhysicalAddress)
		if snap.SelectedPartner != nil && snap.SelectedPartner.ID == pt.ID {
			line = accent(snap.Mode).Render(line)
		}
		if i == p.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	p.list.SetContent(b.String())
}

func (p *partnersPage) View(vc viewCtx) string {
	filter := "all categories"
	if vc.snap.ServiceFilter != "" {
		filter = string(vc.snap.ServiceFilter)
	}
	head := p.input.View() + "   " + subtleStyle.Render("c: "+filter)

	r := p.results.Result()
	body := render(r, vc, func(model.SearchResult) string { return p.list.View() })

	count := ""
	if r.HasData {
		count = fmt.Sprintf("%d partners", r.Data.Count)
	}
	footer := subtleStyle.Render(count + " • / search • c category • enter select")
	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, head, body, footer))
}
