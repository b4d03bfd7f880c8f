// Package tui renders the partner map as a terminal application. Each route
// is a page that owns its queries for as long as it is shown; leaving a page
// closes them so late results never reach a page that is gone.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmax-ai/partnermap/pkg/client"
	"github.com/rmax-ai/partnermap/pkg/query"
	"github.com/rmax-ai/partnermap/pkg/state"
)

type Route int

const (
	RouteHome Route = iota
	RouteMap
	RouteDashboard
	RouteNetwork
	RoutePartners
	RouteAdmin
)

var routeNames = [...]string{"Home", "Map", "Dashboard", "Network", "Partners", "Admin"}

func (r Route) String() string { return routeNames[r] }

// ParseRoute matches a route by name, ignoring case.
func ParseRoute(name string) (Route, bool) {
	for i, n := range routeNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Route(i), true
		}
	}
	return RouteHome, false
}

// page is one route. Update receives every message the app does not handle
// itself; Capturing reports whether a text field has focus so global keys
// are passed through.
type page interface {
	Update(msg tea.Msg) tea.Cmd
	View(vc viewCtx) string
	Capturing() bool
	Close()
}

// env is shared by all pages. Queries fetch through raw; mutations go
// through api so the cache is invalidated.
type env struct {
	raw    client.API
	api    *query.Client
	cache  *query.Cache
	st     *state.Store
	notify func()
}

func watch[T any](e *env, key query.Key, fn func(ctx context.Context) (T, error), opts ...query.Option) *query.Query[T] {
	opts = append([]query.Option{query.OnChange(e.notify)}, opts...)
	return query.New(e.cache, key, func(ctx context.Context, _ query.Key) (T, error) {
		return fn(ctx)
	}, opts...)
}

// refreshMsg means a query or the state store changed.
type refreshMsg struct{}

// mutationMsg reports a finished mutation.
type mutationMsg struct {
	op  string
	err error
}

// App is the root bubbletea model.
type App struct {
	env     *env
	changes chan struct{}
	unsub   func()

	spinner spinner.Model
	route   Route
	page    page
	width   int
	height  int
	status  string
	err     error
}

// New builds the application over api. Reads are cached in cache; st holds
// the session state.
func New(api client.API, cache *query.Cache, st *state.Store) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	a := &App{
		env: &env{
			raw:    api,
			api:    query.NewClient(api, cache),
			cache:  cache,
			st:     st,
			notify: notify,
		},
		changes: changes,
		spinner: s,
		width:   100,
		height:  30,
	}
	a.unsub = st.Subscribe(state.FieldAll, func(state.Field, state.Snapshot) { notify() })
	a.Navigate(RouteHome)
	return a
}

func (a *App) open(r Route) page {
	switch r {
	case RouteMap:
		return newMapPage(a.env)
	case RouteDashboard:
		return newDashboardPage(a.env)
	case RouteNetwork:
		return newNetworkPage(a.env)
	case RoutePartners:
		return newPartnersPage(a.env)
	case RouteAdmin:
		return newAdminPage(a.env)
	default:
		return newHomePage(a.env)
	}
}

// Navigate closes the current page and shows r.
func (a *App) Navigate(r Route) {
	if a.page != nil {
		a.page.Close()
	}
	a.route = r
	a.page = a.open(r)
	a.page.Update(a.pageSize())
}

// pageSize is the area between the tab bar and the footer.
func (a *App) pageSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: max(a.height-6, 5)}
}

func (a *App) Route() Route { return a.route }

// Close releases the current page and the state subscription.
func (a *App) Close() {
	a.page.Close()
	a.unsub()
}

func (a *App) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-a.changes
		return refreshMsg{}
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.waitForChange())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.page.Capturing() {
			switch key := msg.String(); key {
			case "q":
				return a, tea.Quit
			case "m":
				mode := a.env.st.ToggleMode()
				a.status = fmt.Sprintf("Switched to %s", mode.Label())
				return a, nil
			case "s":
				a.env.st.SetSidebarOpen(!a.env.st.Snapshot().SidebarOpen)
				return a, nil
			case "1", "2", "3", "4", "5", "6":
				a.Navigate(Route(key[0] - '1'))
				a.status = ""
				return a, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case refreshMsg:
		cmds = append(cmds, a.waitForChange())

	case mutationMsg:
		if msg.err != nil {
			a.err = msg.err
			a.status = ""
		} else {
			a.err = nil
			a.status = msg.op
		}

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, a.page.Update(a.pageSize())
	}

	cmds = append(cmds, a.page.Update(msg))
	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	snap := a.env.st.Snapshot()
	size := a.pageSize()
	vc := viewCtx{
		width:   size.Width,
		height:  size.Height,
		spinner: a.spinner.View(),
		snap:    snap,
	}

	tabs := make([]string, len(routeNames))
	for i, name := range routeNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if Route(i) == a.route {
			tabs[i] = activeTab(snap.Mode).Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		accent(snap.Mode).Render("Partner Map  "),
		strings.Join(tabs, ""),
		"  ",
		accent(snap.Mode).Render(snap.Mode.Label()),
	)

	body := a.page.View(vc)

	var status string
	switch {
	case a.err != nil:
		status = errorStyle.Render(a.err.Error())
	case a.status != "":
		status = okStyle.Render(a.status)
	}
	footer := subtleStyle.Render(fmt.Sprintf("%s\n1-6 pages • m mode • s sidebar • q quit", status))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// mutate runs fn off the UI goroutine and reports the outcome as a
// mutationMsg labelled done.
func mutate(done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return mutationMsg{err: err}
		}
		return mutationMsg{op: done}
	}
}
