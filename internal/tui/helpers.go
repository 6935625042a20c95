package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/pkg/domain"
)

type copyResultMsg struct {
	gen  int
	text string
	err  error
}

// copyCmd writes text to the system clipboard.
func copyCmd(gen int, text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{gen: gen, text: text, err: clipboard.WriteAll(text)}
	}
}

func copyStatus(msg copyResultMsg) string {
	if msg.err != nil {
		return "copy failed: " + msg.err.Error()
	}
	return "copied " + msg.text
}

// formatTime renders a relative timestamp.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < 0:
		return t.Format("2006-01-02")
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// formatDate renders a calendar date, or "-" for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// formatMoney renders an amount with two decimals.
func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// shortID returns the last 6 characters of a backend ID.
func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

// oneLine collapses newlines and runs of whitespace.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// policyLabel names a purchased policy for pickers.
func policyLabel(p domain.UserPolicy) string {
	title := p.PolicyProduct.Title
	if title == "" {
		title = "policy"
	}
	return fmt.Sprintf("%s (%s)", title, shortID(p.ID))
}

// moveCursor clamps cursor+delta into [0, n).
func moveCursor(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cursor+delta, 0), n-1)
}

// renderList renders rows with the cursor row highlighted, scrolled so the
// cursor stays inside height lines.
func renderList(rows []string, cursor, height int) string {
	if height <= 0 {
		height = len(rows)
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(rows))

	var b strings.Builder
	for i := start; i < end; i++ {
		if i == cursor {
			b.WriteString(selectedRowBg.Render(accentStyle.Render("▸") + rows[i]))
		} else {
			b.WriteString(" " + rows[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// claimRow renders one claim as a list line.
func claimRow(c domain.Claim, width int) string {
	desc := truncStr(oneLine(c.Description), max(width-62, 12))
	return fmt.Sprintf(" %s  %s  %s  %s  %s",
		metaStyle.Render(shortID(c.ID)),
		formatDate(c.IncidentDate),
		moneyStyle.Render(fmt.Sprintf("%10s", formatMoney(c.AmountClaimed))),
		StatusStyle(c.Status).Render(fmt.Sprintf("%-8s", c.Status)),
		normalStyle.Render(desc))
}

// canDecide reports whether a claim is still open for a decision.
func canDecide(c domain.Claim) bool {
	return c.Status == domain.ClaimPending
}
