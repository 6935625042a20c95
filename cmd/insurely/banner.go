package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var welcomeTips = [...]string{
	"Name a nominee when you buy. It saves a week when it matters.",
	"Claims move faster with the incident date right the first time.",
	"Your payment reference is your receipt. Keep it.",
	"A cancelled policy cannot be claimed against. Check before you cancel.",
	"Premiums are per term, not per month. Read the term.",
	"Agents see the customers assigned to them, nobody else.",
	"Press w in the TUI to open the same screen in your browser.",
	"insurely policies mine shows what you are covered for today.",
	"Every decision on a claim lands in the audit log.",
	"Cover you never check is cover you might not have.",
}

var (
	bannerTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#60a5fa")).
				Bold(true)
	bannerQuoteStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Italic(true)
	bannerAttribStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d4a844"))
	bannerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// printWelcome greets a freshly signed-in user with a random tip.
func printWelcome(w io.Writer, name, role, next string) {
	tip := welcomeTips[rand.IntN(len(welcomeTips))]

	fmt.Fprintf(w, "\n%s\n\n%s %s\n\n%s\n%s\n\n%s\n\n",
		bannerTitleStyle.Render("I N S U R E L Y"),
		"Welcome, "+name,
		bannerHintStyle.Render("("+role+")"),
		bannerQuoteStyle.Render(tip),
		bannerAttribStyle.Render("tip"),
		bannerHintStyle.Render("Next: "+next),
	)
}

// printSignedOut is shown after logout.
func printSignedOut(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n\n%s\n\n",
		bannerTitleStyle.Render("I N S U R E L Y"),
		bannerHintStyle.Render("Signed out. To come back: insurely login"),
	)
}
