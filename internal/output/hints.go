package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":             {"whoami", "policies list"},
	"register":          {"policies list"},
	"policies list":     {"policies show <id>", "policies purchase <id>"},
	"policies purchase": {"policies mine", "payments record"},
	"policies mine":     {"claims submit", "payments list"},
	"claims submit":     {"claims list"},
	"payments record":   {"payments list"},
	"admin agents":      {"admin create-agent", "admin assign <agent> <user>"},
	"agent claims":      {"agent decide <id> <status>"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "insurely " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
