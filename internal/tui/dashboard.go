package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

const dashboardRecent = 5

// dashboardLoadedMsg carries the three dashboard slices. Each slice fails
// on its own.
type dashboardLoadedMsg struct {
	gen         int
	policies    []domain.UserPolicy
	claims      []domain.Claim
	payments    []domain.Payment
	policiesErr error
	claimsErr   error
	paymentsErr error
}

type dashboardModel struct {
	client   *client.Client
	gen      int
	identity *domain.User
	loaded   dashboardLoadedMsg
	loading  bool
	width    int
	height   int
}

func newDashboardModel(c *client.Client, gen int, identity *domain.User) dashboardModel {
	return dashboardModel{client: c, gen: gen, identity: identity, loading: c != nil}
}

func (m dashboardModel) Init() tea.Cmd {
	c, gen := m.client, m.gen
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		return loadDashboard(context.Background(), c, gen)
	}
}

func loadDashboard(ctx context.Context, c *client.Client, gen int) dashboardLoadedMsg {
	msg := dashboardLoadedMsg{gen: gen}
	var g errgroup.Group
	g.Go(func() error {
		msg.policies, msg.policiesErr = c.ListMyPolicies(ctx)
		return nil
	})
	g.Go(func() error {
		msg.claims, msg.claimsErr = c.ListClaims(ctx)
		return nil
	})
	g.Go(func() error {
		msg.payments, msg.paymentsErr = c.ListMyPayments(ctx)
		return nil
	})
	_ = g.Wait()
	return msg
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.loaded = msg
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "p":
			return m, navigateTo(nav.PathPolicies)
		case "n":
			return m, navigateTo(nav.PathClaims)
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	name := "there"
	if m.identity != nil && m.identity.Name != "" {
		name = m.identity.Name
	}
	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render("Welcome back, "+name))
	if m.loading {
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	}

	d := m.loaded
	stat := func(label, value string, err error) string {
		if err != nil {
			value = errorStyle.Render("-")
		}
		return fmt.Sprintf("%s %s", metaStyle.Render(label), value)
	}
	fmt.Fprintf(&b, "  %s    %s    %s\n\n",
		stat("Active policies", selectedStyle.Render(fmt.Sprint(domain.CountActive(d.policies))), d.policiesErr),
		stat("Pending claims", selectedStyle.Render(fmt.Sprint(domain.CountPending(d.claims))), d.claimsErr),
		stat("Total paid", moneyStyle.Render(formatMoney(domain.TotalAmount(d.payments))), d.paymentsErr))

	b.WriteString("  " + sectionHeaderStyle.Render("YOUR POLICIES") + "\n")
	switch {
	case d.policiesErr != nil:
		b.WriteString("   " + errorStyle.Render(userMessage(d.policiesErr, msgLoadMyPolicies)) + "\n")
	case len(d.policies) == 0:
		b.WriteString("   " + dimStyle.Render("no policies yet, press p to browse") + "\n")
	default:
		for _, p := range d.policies[:min(len(d.policies), dashboardRecent)] {
			fmt.Fprintf(&b, "   %s  %s  %s\n",
				StatusStyle(p.Status).Render(fmt.Sprintf("%-9s", p.Status)),
				normalStyle.Render(policyLabel(p)),
				metaStyle.Render("until "+formatDate(p.EndDate)))
		}
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("RECENT CLAIMS") + "\n")
	switch {
	case d.claimsErr != nil:
		b.WriteString("   " + errorStyle.Render(userMessage(d.claimsErr, msgLoadClaims)) + "\n")
	case len(d.claims) == 0:
		b.WriteString("   " + dimStyle.Render("no claims") + "\n")
	default:
		for _, c := range d.claims[:min(len(d.claims), dashboardRecent)] {
			b.WriteString("  " + claimRow(c, m.width) + "\n")
		}
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("RECENT PAYMENTS") + "\n")
	switch {
	case d.paymentsErr != nil:
		b.WriteString("   " + errorStyle.Render(userMessage(d.paymentsErr, msgLoadPayments)) + "\n")
	case len(d.payments) == 0:
		b.WriteString("   " + dimStyle.Render("no payments") + "\n")
	default:
		for _, p := range d.payments[:min(len(d.payments), dashboardRecent)] {
			fmt.Fprintf(&b, "   %s  %s  %s  %s\n",
				formatDate(p.CreatedAt),
				moneyStyle.Render(formatMoney(p.Amount)),
				normalStyle.Render(p.Method),
				metaStyle.Render(p.Reference))
		}
	}
	return b.String()
}

func (m dashboardModel) help() string {
	return helpBar("p", "browse policies", "n", "claims", "r", "refresh", "L", "log out", "?", "help")
}
