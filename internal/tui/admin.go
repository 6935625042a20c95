package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

type adminSection int

const (
	sectionSummary adminSection = iota
	sectionClaims
	sectionAgents
	sectionAudit
)

var adminSections = []struct {
	name string
	path string
}{
	{"Summary", nav.PathAdminSummary},
	{"Claims", nav.PathAdminClaims},
	{"Agents", nav.PathAdminAgents},
	{"Audit log", nav.PathAdminAudit},
}

// sectionFor maps an admin path to its section. /admin shows the summary.
func sectionFor(path string) adminSection {
	for i, s := range adminSections {
		if s.path == path {
			return adminSection(i)
		}
	}
	return sectionSummary
}

type adminLoadedMsg struct {
	gen     int
	summary *domain.AdminSummary
	claims  []domain.Claim
	agents  []domain.Agent
	audit   []domain.AuditLog
	err     error
}

// adminUsersMsg feeds the assign form's customer picker.
type adminUsersMsg struct {
	gen   int
	users []domain.BasicUser
	err   error
}

type agentCreatedMsg struct {
	gen   int
	agent *domain.Agent
	err   error
}

type agentAssignedMsg struct {
	gen     int
	message string
	err     error
}

type adminForm int

const (
	adminFormNone adminForm = iota
	adminFormCreateAgent
	adminFormAssign
)

// adminModel is the admin console. Each section is its own route.
type adminModel struct {
	client   *client.Client
	gen      int
	section  adminSection
	summary  *domain.AdminSummary
	claims   []domain.Claim
	agents   []domain.Agent
	audit    []domain.AuditLog
	users    []domain.BasicUser
	cursor   int
	loading  bool
	err      string
	status   string
	formOpen bool
	formKind adminForm
	form     formModel
	width    int
	height   int
}

func newAdminModel(c *client.Client, gen int, section adminSection) adminModel {
	return adminModel{client: c, gen: gen, section: section, loading: c != nil}
}

func (m adminModel) Init() tea.Cmd {
	c, gen, section := m.client, m.gen, m.section
	if c == nil {
		return nil
	}
	load := func() tea.Msg {
		ctx := context.Background()
		msg := adminLoadedMsg{gen: gen}
		switch section {
		case sectionSummary:
			msg.summary, msg.err = c.AdminSummary(ctx)
		case sectionClaims:
			msg.claims, msg.err = c.ListClaims(ctx)
		case sectionAgents:
			msg.agents, msg.err = c.ListAgents(ctx)
		case sectionAudit:
			msg.audit, msg.err = c.AuditLogs(ctx)
		}
		return msg
	}
	if section != sectionAgents {
		return load
	}
	return tea.Batch(load, func() tea.Msg {
		users, err := c.ListUsers(context.Background(), "")
		return adminUsersMsg{gen: gen, users: users, err: err}
	})
}

func (m adminModel) loadFailure() string {
	switch m.section {
	case sectionClaims:
		return msgLoadClaims
	case sectionAgents:
		return msgLoadAgents
	case sectionAudit:
		return msgLoadAudit
	}
	return msgLoadSummary
}

func (m adminModel) rows() int {
	switch m.section {
	case sectionClaims:
		return len(m.claims)
	case sectionAgents:
		return len(m.agents)
	case sectionAudit:
		return len(m.audit)
	}
	return 0
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = userMessage(msg.err, m.loadFailure())
			return m, nil
		}
		m.err = ""
		m.summary, m.claims, m.agents, m.audit = msg.summary, msg.claims, msg.agents, msg.audit
		m.cursor = moveCursor(m.cursor, 0, m.rows())

	case adminUsersMsg:
		if msg.gen != m.gen || msg.err != nil {
			return m, nil
		}
		m.users = msg.users

	case agentCreatedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.form.setError(msg.err, msgCreateAgent)
			return m, nil
		}
		m.formOpen = false
		m.agents = append(m.agents, *msg.agent)
		m.status = "agent " + msg.agent.Name + " created"

	case agentAssignedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.form.setError(msg.err, msgAssignAgent)
			return m, nil
		}
		m.formOpen = false
		m.status = msg.message
		if m.status == "" {
			m.status = "customer assigned"
		}
		return m, m.Init()

	case claimDecidedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.status = userMessage(msg.err, msgUpdateClaim)
			return m, nil
		}
		replaceClaim(m.claims, msg.claim)
		m.status = "claim " + strings.ToLower(msg.claim.Status)

	case copyResultMsg:
		if msg.gen == m.gen {
			m.status = copyStatus(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.formOpen {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m adminModel) handleKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "]", "tab":
		next := (int(m.section) + 1) % len(adminSections)
		return m, navigateTo(adminSections[next].path)
	case "[", "shift+tab":
		prev := (int(m.section) - 1 + len(adminSections)) % len(adminSections)
		return m, navigateTo(adminSections[prev].path)
	case "j", "down":
		m.cursor = moveCursor(m.cursor, 1, m.rows())
	case "k", "up":
		m.cursor = moveCursor(m.cursor, -1, m.rows())
	case "c":
		if id := m.selectedID(); id != "" {
			return m, copyCmd(m.gen, id)
		}
	case "a", "x":
		if m.section != sectionClaims || m.cursor >= len(m.claims) {
			return m, nil
		}
		cl := m.claims[m.cursor]
		if !canDecide(cl) {
			m.status = "claim already " + strings.ToLower(cl.Status)
			return m, nil
		}
		if m.client == nil {
			return m, nil
		}
		status := domain.ClaimApproved
		if msg.String() == "x" {
			status = domain.ClaimRejected
		}
		m.status = "updating..."
		return m, decideClaim(m.client, m.gen, cl.ID, status, false)
	case "n":
		if m.section == sectionAgents {
			m.formOpen, m.formKind = true, adminFormCreateAgent
			m.form = newForm("New agent",
				formField{key: "name", label: "Name"},
				formField{key: "email", label: "Email"},
				formField{key: "password", label: "Password", secret: true},
			)
		}
	case "u":
		if m.section == sectionAgents {
			m.formOpen, m.formKind = true, adminFormAssign
			m.form = m.assignForm()
		}
	}
	return m, nil
}

func (m adminModel) assignForm() formModel {
	f := newForm("Assign a customer",
		formField{key: "agentId", label: "Agent", picker: true},
		formField{key: "userId", label: "Customer", picker: true},
	)
	var agentIDs, agentLabels, userIDs, userLabels []string
	for _, a := range m.agents {
		agentIDs = append(agentIDs, a.ID)
		agentLabels = append(agentLabels, fmt.Sprintf("%s <%s>", a.Name, a.Email))
	}
	for _, u := range m.users {
		if u.Role != domain.RoleCustomer {
			continue
		}
		userIDs = append(userIDs, u.ID)
		userLabels = append(userLabels, fmt.Sprintf("%s <%s>", u.Name, u.Email))
	}
	f.setChoices("agentId", agentIDs, agentLabels)
	f.setChoices("userId", userIDs, userLabels)
	if m.cursor < len(m.agents) {
		f.set("agentId", m.agents[m.cursor].ID)
	}
	return f
}

func (m adminModel) updateForm(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	var action formAction
	m.form, action = m.form.update(msg)
	switch action {
	case formCancel:
		m.formOpen = false
		return m, nil
	case formNone:
		return m, nil
	}
	if m.client == nil {
		return m, nil
	}
	c, gen := m.client, m.gen

	switch m.formKind {
	case adminFormCreateAgent:
		f := forms.AgentForm{
			Name:     strings.TrimSpace(m.form.value("name")),
			Email:    strings.TrimSpace(m.form.value("email")),
			Password: m.form.value("password"),
		}
		if err := forms.Validate(f); err != nil {
			m.form.setError(err, msgCreateAgent)
			return m, nil
		}
		m.form.submitting = true
		return m, func() tea.Msg {
			a, err := c.CreateAgent(context.Background(), f.Request())
			return agentCreatedMsg{gen: gen, agent: a, err: err}
		}
	case adminFormAssign:
		agentID, userID := m.form.value("agentId"), m.form.value("userId")
		if agentID == "" || userID == "" {
			m.form.status = "Pick an agent and a customer."
			return m, nil
		}
		m.form.submitting = true
		return m, func() tea.Msg {
			resp, err := c.AssignAgent(context.Background(), agentID, userID)
			if err != nil {
				return agentAssignedMsg{gen: gen, err: err}
			}
			return agentAssignedMsg{gen: gen, message: resp.Message}
		}
	}
	return m, nil
}

func (m adminModel) selectedID() string {
	switch m.section {
	case sectionClaims:
		if m.cursor < len(m.claims) {
			return m.claims[m.cursor].ID
		}
	case sectionAgents:
		if m.cursor < len(m.agents) {
			return m.agents[m.cursor].ID
		}
	case sectionAudit:
		if m.cursor < len(m.audit) {
			return m.audit[m.cursor].ID
		}
	}
	return ""
}

func (m adminModel) sectionTabs() string {
	parts := make([]string, len(adminSections))
	for i, s := range adminSections {
		if adminSection(i) == m.section {
			parts[i] = selectedStyle.Underline(true).Render(s.name)
		} else {
			parts[i] = dimStyle.Render(s.name)
		}
	}
	return strings.Join(parts, metaStyle.Render("  ·  "))
}

func (m adminModel) View() string {
	if m.formOpen {
		return "\n" + m.form.View()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s   %s\n\n", titleStyle.Render("Admin"), m.sectionTabs())
	switch {
	case m.loading:
		return b.String() + "  " + dimStyle.Render("loading...")
	case m.err != "":
		return b.String() + "  " + errorStyle.Render(m.err)
	}

	listHeight := m.height - 6
	switch m.section {
	case sectionSummary:
		if s := m.summary; s != nil {
			fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render(fmt.Sprintf("%-16s", "Users")), selectedStyle.Render(fmt.Sprint(s.Users)))
			fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render(fmt.Sprintf("%-16s", "Policies sold")), selectedStyle.Render(fmt.Sprint(s.PoliciesSold)))
			fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render(fmt.Sprintf("%-16s", "Claims pending")), StatusStyle(domain.ClaimPending).Render(fmt.Sprint(s.ClaimsPending)))
			fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render(fmt.Sprintf("%-16s", "Total payments")), moneyStyle.Render(formatMoney(s.TotalPayments)))
		}
	case sectionClaims:
		if len(m.claims) == 0 {
			b.WriteString("  " + dimStyle.Render("no claims") + "\n")
			break
		}
		rows := make([]string, len(m.claims))
		for i, c := range m.claims {
			rows[i] = claimRow(c, m.width)
		}
		b.WriteString(renderList(rows, m.cursor, listHeight))
	case sectionAgents:
		if len(m.agents) == 0 {
			b.WriteString("  " + dimStyle.Render("no agents yet, press n to add one") + "\n")
			break
		}
		rows := make([]string, len(m.agents))
		for i, a := range m.agents {
			rows[i] = fmt.Sprintf(" %s  %s  %s",
				selectedStyle.Render(fmt.Sprintf("%-20s", truncStr(a.Name, 20))),
				normalStyle.Render(fmt.Sprintf("%-28s", truncStr(a.Email, 28))),
				dimStyle.Render(fmt.Sprintf("%d customers", len(a.AssignedUsers))))
		}
		b.WriteString(renderList(rows, m.cursor, listHeight))
	case sectionAudit:
		if len(m.audit) == 0 {
			b.WriteString("  " + dimStyle.Render("no audit entries") + "\n")
			break
		}
		rows := make([]string, len(m.audit))
		for i, e := range m.audit {
			rows[i] = fmt.Sprintf(" %s  %s  %s  %s",
				metaStyle.Render(fmt.Sprintf("%-8s", formatTime(e.Timestamp))),
				accentStyle.Render(fmt.Sprintf("%-18s", truncStr(e.Action, 18))),
				normalStyle.Render(fmt.Sprintf("%-16s", truncStr(auditActor(e), 16))),
				dimStyle.Render(truncStr(e.DetailText(), max(m.width-64, 16))))
		}
		b.WriteString(renderList(rows, m.cursor, listHeight))
	}
	if m.status != "" {
		b.WriteString("\n  " + noticeStyle.Render(m.status))
	}
	return b.String()
}

func auditActor(e domain.AuditLog) string {
	if e.UserName != nil && *e.UserName != "" {
		return *e.UserName
	}
	return shortID(e.UserID)
}

func (m adminModel) help() string {
	if m.formOpen {
		return helpBar("tab", "next", "←/→", "choose", "ctrl+s", "save", "esc", "cancel")
	}
	switch m.section {
	case sectionClaims:
		return helpBar("[/]", "section", "j/k", "move", "a", "approve", "x", "reject", "c", "copy ID")
	case sectionAgents:
		return helpBar("[/]", "section", "j/k", "move", "n", "new agent", "u", "assign customer", "c", "copy ID")
	}
	return helpBar("[/]", "section", "j/k", "move", "r", "refresh", "?", "help")
}
