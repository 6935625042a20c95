package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

type assignedUsersMsg struct {
	gen   int
	users []domain.BasicUser
	err   error
}

type assignedClaimsMsg struct {
	gen    int
	claims []domain.Claim
	err    error
}

// agentModel is the agent workspace: assigned customers and their claims.
type agentModel struct {
	client     *client.Client
	gen        int
	users      []domain.BasicUser
	claims     []domain.Claim
	usersErr   string
	claimsErr  string
	loading    int // outstanding loads
	showClaims bool
	userCursor int
	cursor     int
	status     string
	width      int
	height     int
}

func newAgentModel(c *client.Client, gen int) agentModel {
	m := agentModel{client: c, gen: gen, showClaims: true}
	if c != nil {
		m.loading = 2
	}
	return m
}

func (m agentModel) Init() tea.Cmd {
	c, gen := m.client, m.gen
	if c == nil {
		return nil
	}
	return tea.Batch(
		func() tea.Msg {
			users, err := c.AssignedUsers(context.Background())
			return assignedUsersMsg{gen: gen, users: users, err: err}
		},
		func() tea.Msg {
			claims, err := c.AssignedClaims(context.Background())
			return assignedClaimsMsg{gen: gen, claims: claims, err: err}
		},
	)
}

func (m agentModel) Update(msg tea.Msg) (agentModel, tea.Cmd) {
	switch msg := msg.(type) {
	case assignedUsersMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading--
		if msg.err != nil {
			m.usersErr = userMessage(msg.err, msgLoadAssignments)
			return m, nil
		}
		m.users = msg.users

	case assignedClaimsMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading--
		if msg.err != nil {
			m.claimsErr = userMessage(msg.err, msgLoadClaims)
			return m, nil
		}
		m.claims = msg.claims
		m.cursor = moveCursor(m.cursor, 0, len(m.claims))

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
		switch msg.String() {
		case "tab":
			m.showClaims = !m.showClaims
		case "j", "down":
			if m.showClaims {
				m.cursor = moveCursor(m.cursor, 1, len(m.claims))
			} else {
				m.userCursor = moveCursor(m.userCursor, 1, len(m.users))
			}
		case "k", "up":
			if m.showClaims {
				m.cursor = moveCursor(m.cursor, -1, len(m.claims))
			} else {
				m.userCursor = moveCursor(m.userCursor, -1, len(m.users))
			}
		case "c":
			if m.showClaims && m.cursor < len(m.claims) {
				return m, copyCmd(m.gen, m.claims[m.cursor].ID)
			}
			if !m.showClaims && m.userCursor < len(m.users) {
				return m, copyCmd(m.gen, m.users[m.userCursor].Email)
			}
		case "a", "x":
			if !m.showClaims || m.cursor >= len(m.claims) {
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
			return m, decideClaim(m.client, m.gen, cl.ID, status, true)
		}
	}
	return m, nil
}

func (m agentModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render("Agent workspace"))
	if m.loading > 0 {
		return b.String() + "  " + dimStyle.Render("loading...")
	}

	header := func(label string, n int, active bool) string {
		s := fmt.Sprintf("%s (%d)", label, n)
		if active {
			return "  " + selectedStyle.Underline(true).Render(s)
		}
		return "  " + sectionHeaderStyle.Render(s)
	}

	b.WriteString(header("ASSIGNED CUSTOMERS", len(m.users), !m.showClaims) + "\n")
	switch {
	case m.usersErr != "":
		b.WriteString("   " + errorStyle.Render(m.usersErr) + "\n")
	case len(m.users) == 0:
		b.WriteString("   " + dimStyle.Render("no customers assigned") + "\n")
	default:
		rows := make([]string, len(m.users))
		for i, u := range m.users {
			rows[i] = fmt.Sprintf(" %s  %s", selectedStyle.Render(fmt.Sprintf("%-20s", truncStr(u.Name, 20))), normalStyle.Render(u.Email))
		}
		cursor := -1
		if !m.showClaims {
			cursor = m.userCursor
		}
		b.WriteString(renderList(rows, cursor, 8))
	}

	b.WriteString("\n" + header("CLAIMS", len(m.claims), m.showClaims) + "\n")
	switch {
	case m.claimsErr != "":
		b.WriteString("   " + errorStyle.Render(m.claimsErr) + "\n")
	case len(m.claims) == 0:
		b.WriteString("   " + dimStyle.Render("no claims from your customers") + "\n")
	default:
		rows := make([]string, len(m.claims))
		for i, c := range m.claims {
			rows[i] = claimRow(c, m.width)
		}
		cursor := -1
		if m.showClaims {
			cursor = m.cursor
		}
		b.WriteString(renderList(rows, cursor, max(m.height-18, 5)))
	}
	if m.status != "" {
		b.WriteString("\n  " + noticeStyle.Render(m.status))
	}
	return b.String()
}

func (m agentModel) help() string {
	return helpBar("tab", "switch list", "j/k", "move", "a", "approve", "x", "reject", "c", "copy", "?", "help")
}
