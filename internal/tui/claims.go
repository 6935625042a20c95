package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

type claimsLoadedMsg struct {
	gen    int
	claims []domain.Claim
	err    error
}

// claimPoliciesMsg feeds the policy picker. Failure only leaves the picker
// empty.
type claimPoliciesMsg struct {
	gen      int
	policies []domain.UserPolicy
	err      error
}

type claimSubmittedMsg struct {
	gen   int
	claim *domain.Claim
	err   error
}

type claimDecidedMsg struct {
	gen   int
	claim *domain.Claim
	err   error
}

// decideClaim sets a claim's status. Agents go through the agent endpoint.
func decideClaim(c *client.Client, gen int, id, status string, asAgent bool) tea.Cmd {
	f := forms.ClaimDecisionForm{Status: status}
	return func() tea.Msg {
		if err := forms.Validate(f); err != nil {
			return claimDecidedMsg{gen: gen, err: err}
		}
		var (
			claim *domain.Claim
			err   error
		)
		if asAgent {
			claim, err = c.AgentUpdateClaim(context.Background(), id, f.Request())
		} else {
			claim, err = c.UpdateClaimStatus(context.Background(), id, f.Request())
		}
		return claimDecidedMsg{gen: gen, claim: claim, err: err}
	}
}

// replaceClaim swaps in the updated claim with the same ID.
func replaceClaim(claims []domain.Claim, updated *domain.Claim) {
	if updated == nil {
		return
	}
	for i := range claims {
		if claims[i].ID == updated.ID {
			claims[i] = *updated
		}
	}
}

// claimsModel lists claims and files new ones. Staff can decide pending
// claims from here.
type claimsModel struct {
	client   *client.Client
	gen      int
	role     string
	claims   []domain.Claim
	policies []domain.UserPolicy
	cursor   int
	loading  bool
	err      string
	status   string
	formOpen bool
	form     formModel
	now      func() time.Time
	width    int
	height   int
}

func newClaimsModel(c *client.Client, gen int, identity *domain.User) claimsModel {
	m := claimsModel{client: c, gen: gen, loading: c != nil, now: time.Now}
	if identity != nil {
		m.role = identity.Role
	}
	return m
}

func (m claimsModel) staff() bool {
	return m.role == domain.RoleAdmin || m.role == domain.RoleAgent
}

func (m claimsModel) Init() tea.Cmd {
	c, gen := m.client, m.gen
	if c == nil {
		return nil
	}
	return tea.Batch(
		func() tea.Msg {
			claims, err := c.ListClaims(context.Background())
			return claimsLoadedMsg{gen: gen, claims: claims, err: err}
		},
		func() tea.Msg {
			policies, err := c.ListMyPolicies(context.Background())
			return claimPoliciesMsg{gen: gen, policies: policies, err: err}
		},
	)
}

func (m claimsModel) newClaimForm() formModel {
	f := newForm("File a claim",
		formField{key: "policyId", label: "Policy", picker: true},
		formField{key: "incidentDate", label: "Incident date", kind: inputDate, value: m.now().Format(forms.DateLayout)},
		formField{key: "description", label: "Description"},
		formField{key: "amount", label: "Amount", kind: inputAmount},
	)
	ids, labels := activePolicyChoices(m.policies)
	f.setChoices("policyId", ids, labels)
	return f
}

func activePolicyChoices(policies []domain.UserPolicy) (ids, labels []string) {
	for _, p := range policies {
		if p.Status == domain.PolicyActive {
			ids = append(ids, p.ID)
			labels = append(labels, policyLabel(p))
		}
	}
	return ids, labels
}

func (m claimsModel) Update(msg tea.Msg) (claimsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case claimsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = userMessage(msg.err, msgLoadClaims)
			return m, nil
		}
		m.err = ""
		m.claims = msg.claims
		m.cursor = moveCursor(m.cursor, 0, len(m.claims))

	case claimPoliciesMsg:
		if msg.gen != m.gen || msg.err != nil {
			return m, nil
		}
		m.policies = msg.policies
		if m.formOpen {
			ids, labels := activePolicyChoices(m.policies)
			m.form.setChoices("policyId", ids, labels)
		}

	case claimSubmittedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.form.setError(msg.err, msgSubmitClaim)
			return m, nil
		}
		m.formOpen = false
		m.claims = append([]domain.Claim{*msg.claim}, m.claims...)
		m.cursor = 0
		m.status = "claim submitted"

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

func (m claimsModel) handleKey(msg tea.KeyMsg) (claimsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.cursor = moveCursor(m.cursor, 1, len(m.claims))
	case "k", "up":
		m.cursor = moveCursor(m.cursor, -1, len(m.claims))
	case "n":
		m.formOpen = true
		m.form = m.newClaimForm()
		m.status = ""
	case "c":
		if m.cursor < len(m.claims) {
			return m, copyCmd(m.gen, m.claims[m.cursor].ID)
		}
	case "a", "x":
		if !m.staff() || m.cursor >= len(m.claims) {
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
		return m, decideClaim(m.client, m.gen, cl.ID, status, m.role == domain.RoleAgent)
	}
	return m, nil
}

func (m claimsModel) updateForm(msg tea.KeyMsg) (claimsModel, tea.Cmd) {
	var action formAction
	m.form, action = m.form.update(msg)
	switch action {
	case formCancel:
		m.formOpen = false
	case formSubmit:
		amount, _ := strconv.ParseFloat(strings.TrimSpace(m.form.value("amount")), 64)
		f := forms.ClaimForm{
			PolicyID:     m.form.value("policyId"),
			IncidentDate: strings.TrimSpace(m.form.value("incidentDate")),
			Description:  strings.TrimSpace(m.form.value("description")),
			Amount:       amount,
		}
		if err := forms.Validate(f); err != nil {
			m.form.setError(err, msgSubmitClaim)
			return m, nil
		}
		if m.client == nil {
			return m, nil
		}
		m.form.errs = nil
		m.form.status = ""
		m.form.submitting = true
		c, gen := m.client, m.gen
		return m, func() tea.Msg {
			cl, err := c.SubmitClaim(context.Background(), f.Request())
			return claimSubmittedMsg{gen: gen, claim: cl, err: err}
		}
	}
	return m, nil
}

func (m claimsModel) View() string {
	if m.formOpen {
		return "\n" + m.form.View()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render("Claims"))
	switch {
	case m.loading:
		return b.String() + "  " + dimStyle.Render("loading...")
	case m.err != "":
		return b.String() + "  " + errorStyle.Render(m.err)
	case len(m.claims) == 0:
		b.WriteString("  " + dimStyle.Render("no claims yet, press n to file one") + "\n")
	default:
		rows := make([]string, len(m.claims))
		for i, c := range m.claims {
			rows[i] = claimRow(c, m.width)
		}
		b.WriteString(renderList(rows, m.cursor, m.height-6))
		if cl := m.claims[m.cursor]; cl.DecisionNotes != "" {
			fmt.Fprintf(&b, "\n  %s %s\n", metaStyle.Render("Notes"), normalStyle.Render(oneLine(cl.DecisionNotes)))
		}
	}
	if m.status != "" {
		b.WriteString("\n  " + noticeStyle.Render(m.status))
	}
	return b.String()
}

func (m claimsModel) help() string {
	if m.formOpen {
		return helpBar("tab", "next", "←/→", "policy", "ctrl+s", "submit", "esc", "cancel")
	}
	if m.staff() {
		return helpBar("j/k", "move", "n", "new", "a", "approve", "x", "reject", "c", "copy ID", "?", "help")
	}
	return helpBar("j/k", "move", "n", "new claim", "c", "copy ID", "r", "refresh", "?", "help")
}
