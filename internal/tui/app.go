// Package tui is the interactive terminal interface. Every screen is a
// route; moving between screens goes through the route table so access
// rules are checked on every move.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/insurely/insurely/internal/browser"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/internal/session"
	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

type view int

const (
	viewHome view = iota
	viewLogin
	viewRegister
	viewDashboard
	viewPolicies
	viewPolicyDetail
	viewMyPolicies
	viewClaims
	viewPayments
	viewAdmin
	viewAgent
)

var viewByPattern = map[string]view{
	nav.PathHome:         viewHome,
	nav.PathLogin:        viewLogin,
	nav.PathRegister:     viewRegister,
	nav.PathDashboard:    viewDashboard,
	nav.PathPolicies:     viewPolicies,
	nav.PathPolicyDetail: viewPolicyDetail,
	nav.PathMyPolicies:   viewMyPolicies,
	nav.PathClaims:       viewClaims,
	nav.PathPayments:     viewPayments,
	nav.PathAdmin:        viewAdmin,
	nav.PathAdminSummary: viewAdmin,
	nav.PathAdminClaims:  viewAdmin,
	nav.PathAdminAgents:  viewAdmin,
	nav.PathAdminAudit:   viewAdmin,
	nav.PathAgent:        viewAgent,
}

// navigateMsg asks the App to move to path.
type navigateMsg struct {
	path string
}

func navigateTo(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// identityMsg carries a session change.
type identityMsg struct {
	user *domain.User
}

// Options configures NewApp.
type Options struct {
	Client  *client.Client
	Session *session.Manager
	// Router defaults to the application route table.
	Router *nav.Router
	// WebURL is the browser frontend, used by the "w" key.
	WebURL string
	// Start is the first path shown. Defaults to /dashboard.
	Start  string
	Logger *slog.Logger
}

// App is the root Bubbletea model.
type App struct {
	client   *client.Client
	session  *session.Manager
	router   *nav.Router
	webURL   string
	start    string
	logger   *slog.Logger
	identity *domain.User

	identities  chan *domain.User
	unsubscribe func()

	view      view
	route     nav.Match
	gen       int
	home      homeModel
	login     loginModel
	register  registerModel
	dashboard dashboardModel
	policies  policiesModel
	detail    policyDetailModel
	mine      myPoliciesModel
	claims    claimsModel
	payments  paymentsModel
	admin     adminModel
	agent     agentModel

	helpOpen bool
	notice   string
	width    int
	height   int
	frame    int
}

// NewApp creates the TUI. Call Close when the program exits.
func NewApp(opts Options) *App {
	a := &App{
		client:     opts.Client,
		session:    opts.Session,
		router:     opts.Router,
		webURL:     strings.TrimRight(opts.WebURL, "/"),
		start:      opts.Start,
		logger:     opts.Logger,
		identities: make(chan *domain.User, 1),
	}
	if a.router == nil {
		a.router = nav.NewRouter(nav.DefaultRoutes())
	}
	if a.start == "" {
		a.start = nav.PathDashboard
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	a.identity = a.session.CurrentIdentity()
	a.unsubscribe = a.session.Subscribe(func(u *domain.User) {
		// Keep only the latest identity; the UI reads it on its own schedule.
		select {
		case <-a.identities:
		default:
		}
		a.identities <- u
	})
	return a
}

// Close stops listening for session changes.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func waitForIdentity(ch <-chan *domain.User) tea.Cmd {
	return func() tea.Msg {
		return identityMsg{user: <-ch}
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), waitForIdentity(a.identities), navigateTo(a.start))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + notice(1) + help(1) = 5 lines
		body := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.broadcast(body)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case identityMsg:
		a.identity = msg.user
		cmds := []tea.Cmd{waitForIdentity(a.identities)}
		if msg.user == nil && len(a.route.Route.Guards) > 0 {
			cmds = append(cmds, navigateTo(nav.PathLogin))
		}
		return a, tea.Batch(cmds...)

	case navigateMsg:
		return a, a.navigate(msg.path)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			switch msg.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}
		if !a.isEditing() {
			if cmd, handled := a.globalKey(msg.String()); handled {
				return a, cmd
			}
		}
		return a, a.updateActive(msg)
	}

	// Data messages go to every screen; each one only acts on its own
	// results from its current generation.
	return a, a.broadcast(msg)
}

func (a *App) globalKey(key string) (tea.Cmd, bool) {
	switch key {
	case "q":
		return tea.Quit, true
	case "?":
		a.helpOpen = true
		return nil, true
	case "L":
		if !a.session.IsAuthenticated() {
			return nil, true
		}
		a.session.Logout()
		return navigateTo(nav.PathLogin), true
	case "r":
		return navigateTo(a.route.Path), true
	case "w":
		url, err := browser.ScreenURL(a.webURL, a.route.Path)
		if err == nil {
			err = browser.Open(url)
		}
		if err != nil {
			a.logger.Warn("open browser", "error", err)
			a.notice = "could not open the browser"
		}
		return nil, true
	}
	for _, t := range a.tabs() {
		if t.key == key {
			return navigateTo(t.path), true
		}
	}
	return nil, false
}

// navigate resolves path through the router and activates the screen it
// lands on with a fresh model.
func (a *App) navigate(path string) tea.Cmd {
	m, err := a.router.Navigate(a.session, path)
	if err != nil {
		a.logger.Warn("navigation failed", "path", path, "error", err)
		a.notice = err.Error()
		return nil
	}
	a.notice = ""
	if m.Redirected {
		switch m.Path {
		case nav.PathLogin:
			a.notice = "Please log in to continue."
		case nav.PathDashboard:
			if _, _, known := a.router.Lookup(path); known {
				a.notice = msgPermissionDenied
			}
		}
	}
	a.logger.Debug("navigate", "requested", path, "path", m.Path)

	a.gen++
	a.route = m
	a.helpOpen = false
	a.view = viewByPattern[m.Route.Pattern]
	size := tea.WindowSizeMsg{Width: a.width, Height: a.height - 5}

	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home = newHomeModel()
		a.home, _ = a.home.Update(size)
	case viewLogin:
		a.login = newLoginModel(a.session, a.gen)
	case viewRegister:
		a.register = newRegisterModel(a.session, a.gen)
	case viewDashboard:
		a.dashboard = newDashboardModel(a.client, a.gen, a.session.CurrentIdentity())
		a.dashboard, _ = a.dashboard.Update(size)
		cmd = a.dashboard.Init()
	case viewPolicies:
		a.policies = newPoliciesModel(a.client, a.gen, a.session.CurrentIdentity())
		a.policies, _ = a.policies.Update(size)
		cmd = a.policies.Init()
	case viewPolicyDetail:
		a.detail = newPolicyDetailModel(a.client, a.gen, m.Params["id"])
		cmd = a.detail.Init()
	case viewMyPolicies:
		a.mine = newMyPoliciesModel(a.client, a.gen)
		a.mine, _ = a.mine.Update(size)
		cmd = a.mine.Init()
	case viewClaims:
		a.claims = newClaimsModel(a.client, a.gen, a.session.CurrentIdentity())
		a.claims, _ = a.claims.Update(size)
		cmd = a.claims.Init()
	case viewPayments:
		a.payments = newPaymentsModel(a.client, a.gen)
		a.payments, _ = a.payments.Update(size)
		cmd = a.payments.Init()
	case viewAdmin:
		a.admin = newAdminModel(a.client, a.gen, sectionFor(m.Path))
		a.admin, _ = a.admin.Update(size)
		cmd = a.admin.Init()
	case viewAgent:
		a.agent = newAgentModel(a.client, a.gen)
		a.agent, _ = a.agent.Update(size)
		cmd = a.agent.Init()
	}
	return cmd
}

func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewPolicies:
		a.policies, cmd = a.policies.Update(msg)
	case viewPolicyDetail:
		a.detail, cmd = a.detail.Update(msg)
	case viewMyPolicies:
		a.mine, cmd = a.mine.Update(msg)
	case viewClaims:
		a.claims, cmd = a.claims.Update(msg)
	case viewPayments:
		a.payments, cmd = a.payments.Update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	case viewAgent:
		a.agent, cmd = a.agent.Update(msg)
	}
	return cmd
}

func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds [11]tea.Cmd
	a.home, cmds[0] = a.home.Update(msg)
	a.login, cmds[1] = a.login.Update(msg)
	a.register, cmds[2] = a.register.Update(msg)
	a.dashboard, cmds[3] = a.dashboard.Update(msg)
	a.policies, cmds[4] = a.policies.Update(msg)
	a.detail, cmds[5] = a.detail.Update(msg)
	a.mine, cmds[6] = a.mine.Update(msg)
	a.claims, cmds[7] = a.claims.Update(msg)
	a.payments, cmds[8] = a.payments.Update(msg)
	a.admin, cmds[9] = a.admin.Update(msg)
	a.agent, cmds[10] = a.agent.Update(msg)
	return tea.Batch(cmds[:]...)
}

func (a *App) isEditing() bool {
	switch a.view {
	case viewLogin, viewRegister:
		return true
	case viewPolicyDetail:
		return a.detail.product != nil
	case viewPolicies:
		return a.policies.formOpen
	case viewClaims:
		return a.claims.formOpen
	case viewPayments:
		return a.payments.formOpen
	case viewAdmin:
		return a.admin.formOpen
	}
	return false
}

type tabEntry struct {
	key  string
	name string
	path string
}

func (a *App) tabs() []tabEntry {
	if !a.session.IsAuthenticated() {
		return []tabEntry{
			{"1", "Home", nav.PathHome},
			{"2", "Login", nav.PathLogin},
			{"3", "Register", nav.PathRegister},
		}
	}
	tabs := []tabEntry{
		{"1", "Dashboard", nav.PathDashboard},
		{"2", "Policies", nav.PathPolicies},
		{"3", "My policies", nav.PathMyPolicies},
		{"4", "Claims", nav.PathClaims},
		{"5", "Payments", nav.PathPayments},
	}
	switch {
	case a.identity.HasRole(domain.RoleAdmin):
		tabs = append(tabs, tabEntry{"6", "Admin", nav.PathAdmin})
	case a.identity.HasRole(domain.RoleAgent):
		tabs = append(tabs, tabEntry{"6", "Agent", nav.PathAgent})
	}
	return tabs
}

func (a *App) header() string {
	logo := renderShimmerLogo(a.frame)
	header := center(logo, a.width)

	var status string
	if u := a.identity; u != nil && a.session.IsAuthenticated() {
		parts := []string{selectedStyle.Render(u.Name), RoleStyle(u.Role).Render(u.Role)}
		if exp, ok := a.session.ExpiresAt(); ok {
			if left := time.Until(exp); left > 0 {
				parts = append(parts, metaStyle.Render("session "+left.Round(time.Minute).String()))
			} else {
				parts = append(parts, errorStyle.Render("session expired"))
			}
		}
		status = strings.Join(parts, metaStyle.Render(" · "))
	} else {
		status = metaStyle.Render("not signed in")
	}
	return header + "\n" + center(status, a.width)
}

func (a *App) tabBar() string {
	tabs := a.tabs()
	colWidth := a.width / max(len(tabs), 1)
	var bar strings.Builder
	for _, t := range tabs {
		var label string
		active := strings.HasPrefix(a.route.Path, t.path) && (t.path != nav.PathPolicies || a.view == viewPolicies || a.view == viewPolicyDetail)
		if active {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		bar.WriteString(padCenter(label, colWidth))
	}
	return bar.String()
}

func (a *App) View() string {
	var body, help string
	switch a.view {
	case viewHome:
		body, help = a.home.View(), a.home.help()
	case viewLogin:
		body, help = a.login.View(), a.login.help()
	case viewRegister:
		body, help = a.register.View(), a.register.help()
	case viewDashboard:
		body, help = a.dashboard.View(), a.dashboard.help()
	case viewPolicies:
		body, help = a.policies.View(), a.policies.help()
	case viewPolicyDetail:
		body, help = a.detail.View(), a.detail.help()
	case viewMyPolicies:
		body, help = a.mine.View(), a.mine.help()
	case viewClaims:
		body, help = a.claims.View(), a.claims.help()
	case viewPayments:
		body, help = a.payments.View(), a.payments.help()
	case viewAdmin:
		body, help = a.admin.View(), a.admin.help()
	case viewAgent:
		body, help = a.agent.View(), a.agent.help()
	}
	if a.helpOpen {
		body = helpView()
		help = helpBar("esc", "close", "q", "quit")
	}

	notice := ""
	if a.notice != "" {
		notice = " " + noticeStyle.Render(a.notice)
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", a.header(), a.tabBar(), notice, body, help)
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	return strings.Repeat(" ", max(pad, 0)) + s
}

func padCenter(s string, width int) string {
	w := lipgloss.Width(s)
	left := max((width-w)/2, 0)
	right := max(width-w-left, 0)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
