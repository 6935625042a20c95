package output

import (
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
)

// Process exit codes. Scripts can tell a missing session (3) from a role
// that may not run the command (4).
const (
	ExitSuccess      = 0
	ExitGeneral      = 1
	ExitUsageError   = 2
	ExitAuthRequired = 3
	ExitForbidden    = 4
	ExitConfigError  = 5
)

// CLIError is a command failure as shown to the user.
type CLIError struct {
	Summary string
	Detail  string
	// Fields holds per-flag problems from form validation, keyed by the
	// form field name.
	Fields map[string]string
	// BackendStatus is the HTTP status the backend answered with, or 0.
	BackendStatus int
	Suggestion    string
	ExitCode      int
}

func (e *CLIError) Error() string {
	return e.Summary
}

// NotLoggedIn is returned when a command needs a session and there is none.
func NotLoggedIn() *CLIError {
	return &CLIError{
		Summary:    "not logged in",
		Suggestion: "Run 'insurely login'",
		ExitCode:   ExitAuthRequired,
	}
}

// PermissionDenied is returned when the signed-in role may not run command.
func PermissionDenied(command, role string) *CLIError {
	if role == "" {
		role = "none"
	}
	return &CLIError{
		Summary:  "permission denied",
		Detail:   fmt.Sprintf("%s is not available to role %q", command, role),
		ExitCode: ExitForbidden,
	}
}

// InvalidInput reports form validation problems, one per field.
func InvalidInput(fields map[string]string) *CLIError {
	return &CLIError{
		Summary:    "invalid input",
		Fields:     fields,
		Suggestion: "Check the flags with --help",
		ExitCode:   ExitUsageError,
	}
}

// FormatError prints e to stderr.
func (p *Printer) FormatError(e *CLIError) {
	paint := func(attrs ...color.Attribute) func(io.Writer, string, ...any) {
		if !p.useColors {
			return func(w io.Writer, format string, args ...any) { fmt.Fprintf(w, format, args...) }
		}
		c := color.New(attrs...)
		return func(w io.Writer, format string, args ...any) { c.Fprintf(w, format, args...) }
	}
	if p.useColors {
		paint(color.FgRed, color.Bold)(p.err, "Error: %s\n", e.Summary)
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		paint(color.FgYellow)(p.err, "  - %s\n", e.Fields[name])
	}
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
	}
	if e.BackendStatus != 0 {
		fmt.Fprintf(p.err, "  Backend status: %d\n", e.BackendStatus)
	}
	if e.Suggestion != "" {
		paint(color.FgCyan)(p.err, "  Suggestion: %s\n", e.Suggestion)
	}
}
