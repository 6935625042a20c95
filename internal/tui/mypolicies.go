package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

type myPoliciesLoadedMsg struct {
	gen      int
	policies []domain.UserPolicy
	err      error
}

type policyCancelledMsg struct {
	gen    int
	policy *domain.UserPolicy
	err    error
}

// myPoliciesModel lists the signed-in customer's purchased policies.
type myPoliciesModel struct {
	client   *client.Client
	gen      int
	policies []domain.UserPolicy
	cursor   int
	loading  bool
	err      string
	status   string
	width    int
	height   int
}

func newMyPoliciesModel(c *client.Client, gen int) myPoliciesModel {
	return myPoliciesModel{client: c, gen: gen, loading: c != nil}
}

func (m myPoliciesModel) Init() tea.Cmd {
	c, gen := m.client, m.gen
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		policies, err := c.ListMyPolicies(context.Background())
		return myPoliciesLoadedMsg{gen: gen, policies: policies, err: err}
	}
}

func (m myPoliciesModel) Update(msg tea.Msg) (myPoliciesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case myPoliciesLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = userMessage(msg.err, msgLoadMyPolicies)
			return m, nil
		}
		m.err = ""
		m.policies = msg.policies
		m.cursor = moveCursor(m.cursor, 0, len(m.policies))

	case policyCancelledMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.status = userMessage(msg.err, msgCancelFailed)
			return m, nil
		}
		for i := range m.policies {
			if m.policies[i].ID == msg.policy.ID {
				m.policies[i].Status = msg.policy.Status
			}
		}
		m.status = "policy cancelled"

	case copyResultMsg:
		if msg.gen == m.gen {
			m.status = copyStatus(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(m.policies))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(m.policies))
		case "c":
			if m.cursor < len(m.policies) {
				return m, copyCmd(m.gen, m.policies[m.cursor].ID)
			}
		case "x":
			if m.cursor >= len(m.policies) {
				return m, nil
			}
			p := m.policies[m.cursor]
			if p.Status != domain.PolicyActive {
				m.status = "only active policies can be cancelled"
				return m, nil
			}
			if m.client == nil {
				return m, nil
			}
			c, gen := m.client, m.gen
			m.status = "cancelling..."
			return m, func() tea.Msg {
				up, err := c.CancelPolicy(context.Background(), p.ID)
				return policyCancelledMsg{gen: gen, policy: up, err: err}
			}
		}
	}
	return m, nil
}

func (m myPoliciesModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render("My policies"))
	switch {
	case m.loading:
		return b.String() + "  " + dimStyle.Render("loading...")
	case m.err != "":
		return b.String() + "  " + errorStyle.Render(m.err)
	case len(m.policies) == 0:
		return b.String() + "  " + dimStyle.Render("you have not bought any policies yet")
	}

	rows := make([]string, len(m.policies))
	for i, p := range m.policies {
		rows[i] = fmt.Sprintf(" %s  %s  %s → %s  %s",
			StatusStyle(p.Status).Render(fmt.Sprintf("%-9s", p.Status)),
			selectedStyle.Render(fmt.Sprintf("%-28s", truncStr(policyLabel(p), 28))),
			formatDate(p.StartDate), formatDate(p.EndDate),
			moneyStyle.Render(formatMoney(p.PremiumPaid)))
	}
	b.WriteString(renderList(rows, m.cursor, m.height-6))

	if m.cursor < len(m.policies) {
		if n := m.policies[m.cursor].Nominee; n != nil && n.Name != "" {
			fmt.Fprintf(&b, "\n  %s %s (%s)\n", metaStyle.Render("Nominee"), normalStyle.Render(n.Name), n.Relation)
		}
	}
	if m.status != "" {
		b.WriteString("\n  " + noticeStyle.Render(m.status))
	}
	return b.String()
}

func (m myPoliciesModel) help() string {
	return helpBar("j/k", "move", "x", "cancel policy", "c", "copy ID", "r", "refresh", "?", "help")
}
