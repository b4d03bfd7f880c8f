package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/query"
)

const partnerCreated = "Partner created"

// adminPage holds the new-partner form and the approval queue. Invalid
// submissions show errors next to their fields and are never sent.
type adminPage struct {
	e        *env
	inputs   []textinput.Model
	focus    int
	errs     model.ValidationErrors
	partners *query.Query[[]model.Partner]
}

func newAdminPage(e *env) *adminPage {
	inputs := make([]textinput.Model, len(partnerFormFields))
	for i := range partnerFormFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 255
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[0].Focus()

	return &adminPage{
		e:        e,
		inputs:   inputs,
		partners: watch(e, query.KeyPartners, e.raw.ListPartners),
	}
}

func (p *adminPage) Capturing() bool { return p.focus >= 0 }

func (p *adminPage) Close() { p.partners.Close() }

func (p *adminPage) values() map[string]string {
	v := make(map[string]string, len(p.inputs))
	for i, f := range partnerFormFields {
		v[f.name] = p.inputs[i].Value()
	}
	return v
}

func (p *adminPage) setFocus(i int) tea.Cmd {
	for j := range p.inputs {
		p.inputs[j].Blur()
	}
	p.focus = i
	if i < 0 {
		return nil
	}
	return p.inputs[i].Focus()
}

func (p *adminPage) pending() []model.Partner {
	var out []model.Partner
	for _, pt := range p.partners.Result().Data {
		if pt.ApprovalStatus == model.ApprovalPending {
			out = append(out, pt)
		}
	}
	return out
}

func (p *adminPage) submit() tea.Cmd {
	in, errs := parsePartnerForm(p.values())
	p.errs = errs
	if errs != nil {
		return nil
	}
	api := p.e.api
	return mutate(partnerCreated, func(ctx context.Context) error {
		_, err := api.CreatePartner(ctx, in)
		return err
	})
}

func (p *adminPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case mutationMsg:
		if msg.op == partnerCreated {
			for i := range p.inputs {
				p.inputs[i].Reset()
			}
			p.errs = nil
			return p.setFocus(0)
		}
		return nil
	case tea.KeyMsg:
		n := len(p.inputs)
		switch msg.String() {
		case "tab", "down":
			return p.setFocus((p.focus + 1) % n)
		case "shift+tab", "up":
			return p.setFocus((p.focus - 1 + n) % n)
		case "ctrl+s":
			return p.submit()
		case "enter":
			if p.focus == n-1 {
				return p.submit()
			}
			if p.focus >= 0 {
				return p.setFocus(p.focus + 1)
			}
		case "esc":
			return p.setFocus(-1)
		case "i":
			if p.focus < 0 {
				return p.setFocus(0)
			}
		case "a":
			if p.focus < 0 {
				if queue := p.pending(); len(queue) > 0 {
					id, api := queue[0].ID, p.e.api
					name := queue[0].OrganizationName
					return mutate("Approved "+name, func(ctx context.Context) error {
						_, err := api.ApprovePartner(ctx, id)
						return err
					})
				}
				return nil
			}
		}
		if p.focus >= 0 {
			var cmd tea.Cmd
			p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
			return cmd
		}
	}
	return nil
}

func (p *adminPage) View(vc viewCtx) string {
	var form strings.Builder
	form.WriteString(headerStyle.Render("New partner") + "\n")
	for i, f := range partnerFormFields {
		label := labelStyle.Render(f.label)
		if i == p.focus {
			label = accent(vc.snap.Mode).Width(28).Render(f.label)
		}
		form.WriteString(label + p.inputs[i].View() + "\n")
		if msg := p.errs.Field(f.name); msg != "" {
			form.WriteString(labelStyle.Render("") + errorStyle.Render(msg) + "\n")
		}
	}
	form.WriteString("\n" + subtleStyle.Render("tab next field • ctrl+s submit • esc leave form"))

	queue := render(p.partners.Result(), vc, func([]model.Partner) string {
		pending := p.pending()
		if len(pending) == 0 {
			return subtleStyle.Render("No partners awaiting approval.")
		}
		var b strings.Builder
		for _, pt := range pending {
			b.WriteString(fmt.Sprintf("%s %s\n", pt.PartnerID, pt.OrganizationName))
		}
		return b.String() + "\n" + subtleStyle.Render("a approves the first (form must be unfocused)")
	})

	return lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Width(72).Render(form.String()),
		paneStyle.Width(max(vc.width-80, 28)).Render(headerStyle.Render("Awaiting approval")+"\n"+queue),
	)
}
