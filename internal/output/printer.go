// Package output formats CLI output.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/insurely/insurely/pkg/domain"
)

// ColorMode is the value of the --color flag.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// PrinterOptions configures a Printer.
type PrinterOptions struct {
	ColorMode    ColorMode
	ConfigColors bool // output.colors from .insurely.yaml
	Quiet        bool
	Out, Err     io.Writer
}

// Printer writes command results to Out and diagnostics to Err. Quiet
// suppresses everything except errors.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
}

// ResolveColors decides whether to color output. In auto mode NO_COLOR and
// a dumb terminal win over the config file.
func ResolveColors(mode ColorMode, configColors bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok || os.Getenv("TERM") == "dumb" {
		return false
	}
	return configColors
}

// NewPrinter returns a Printer. Nil writers default to stdout and stderr.
func NewPrinter(opts PrinterOptions) *Printer {
	p := &Printer{
		out:       opts.Out,
		err:       opts.Err,
		useColors: ResolveColors(opts.ColorMode, opts.ConfigColors),
		quiet:     opts.Quiet,
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.err == nil {
		p.err = os.Stderr
	}
	return p
}

// line writes one message, prefixed with symbol in color mode or with tag
// otherwise.
func (p *Printer) line(w io.Writer, attr color.Attribute, symbol, tag, format string, args []any) {
	msg := fmt.Sprintf(format, args...)
	if p.useColors {
		if symbol != "" {
			msg = symbol + " " + msg
		}
		color.New(attr).Fprintln(w, msg)
		return
	}
	if tag != "" {
		msg = tag + " " + msg
	}
	fmt.Fprintln(w, msg)
}

func (p *Printer) Info(format string, args ...any) {
	if !p.quiet {
		p.line(p.out, color.FgCyan, "", "", format, args)
	}
}

// Success confirms a change on the backend, such as a purchase or a claim
// decision.
func (p *Printer) Success(format string, args ...any) {
	if !p.quiet {
		p.line(p.out, color.FgGreen, "✓", "[OK]", format, args)
	}
}

func (p *Printer) Warning(format string, args ...any) {
	if !p.quiet {
		p.line(p.err, color.FgYellow, "⚠", "[WARN]", format, args)
	}
}

// Error is printed even in quiet mode.
func (p *Printer) Error(format string, args ...any) {
	p.line(p.err, color.FgRed, "✗", "[ERROR]", format, args)
}

func (p *Printer) Print(format string, args ...any) {
	if !p.quiet {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}

// Fields prints label/value pairs as aligned lines, the detail view of a
// single policy, claim or payment.
func (p *Printer) Fields(pairs ...string) {
	if p.quiet {
		return
	}
	width := 0
	for i := 0; i+1 < len(pairs); i += 2 {
		width = max(width, len(pairs[i])+1)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		label := fmt.Sprintf("%-*s", width, pairs[i]+":")
		if p.useColors {
			label = color.New(color.Faint).Sprint(label)
		}
		fmt.Fprintf(p.out, "%s  %s\n", label, pairs[i+1])
	}
}

// StatusBadge renders a policy or claim status.
func (p *Printer) StatusBadge(status string) string {
	if !p.useColors {
		return "[" + status + "]"
	}
	switch status {
	case domain.PolicyActive, domain.ClaimApproved:
		return color.GreenString(status)
	case domain.PolicyCancelled, domain.ClaimRejected:
		return color.RedString(status)
	case domain.ClaimPending:
		return color.YellowString(status)
	case domain.PolicyExpired:
		return color.New(color.Faint).Sprint(status)
	}
	return status
}

func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}
