package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/internal/nav"
)

// homeModel is the public landing screen.
type homeModel struct {
	width  int
	height int
}

func newHomeModel() homeModel {
	return homeModel{}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "l", "enter":
			return m, navigateTo(nav.PathLogin)
		case "s":
			return m, navigateTo(nav.PathRegister)
		case "d":
			return m, navigateTo(nav.PathDashboard)
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	features := []struct{ title, desc string }{
		{"Browse policies", "Compare products by premium, term and cover."},
		{"Buy in minutes", "Pick a start date, name a nominee, done."},
		{"File claims", "Submit a claim and follow its decision."},
		{"Track payments", "Record premiums and see what you have paid."},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n", titleStyle.Render("Insurance without the paperwork"))
	fmt.Fprintf(&b, "  %s\n\n", dimStyle.Render("Policies, claims and payments from your terminal."))
	for _, f := range features {
		fmt.Fprintf(&b, "  %s %s\n", accentStyle.Render("•"), selectedStyle.Render(f.title))
		fmt.Fprintf(&b, "    %s\n", metaStyle.Render(f.desc))
	}
	fmt.Fprintf(&b, "\n  %s to log in, %s to create an account\n",
		helpKeyStyle.Render("l"), helpKeyStyle.Render("s"))
	return b.String()
}

func (m homeModel) help() string {
	return helpBar("l", "log in", "s", "sign up", "d", "dashboard", "?", "help", "q", "quit")
}
