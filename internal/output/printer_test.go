package output

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func plainPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	p := NewPrinter(PrinterOptions{ColorMode: ColorNever, Quiet: quiet, Out: &stdout, Err: &stderr})
	return p, &stdout, &stderr
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
	if _, err := ParseColorMode("rainbow"); err == nil {
		t.Error("expected error for invalid color mode, got nil")
	}
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if !ResolveColors(ColorAlways, false) {
		t.Error("ColorAlways should win over NO_COLOR")
	}
	if ResolveColors(ColorAuto, true) {
		t.Error("NO_COLOR should disable auto colors")
	}

	os.Unsetenv("NO_COLOR")
	t.Setenv("TERM", "xterm-256color")
	if !ResolveColors(ColorAuto, true) || ResolveColors(ColorAuto, false) {
		t.Error("auto mode should follow the config value")
	}
	if ResolveColors(ColorNever, true) {
		t.Error("ColorNever should disable colors")
	}
}

func TestPlainOutput(t *testing.T) {
	p, stdout, stderr := plainPrinter(false)
	p.Success("bought %s", "Health Basic")
	p.Warning("token expires soon")
	p.Error("boom")

	if got := stdout.String(); got != "[OK] bought Health Basic\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := stderr.String(); !strings.Contains(got, "[WARN] token expires soon") || !strings.Contains(got, "[ERROR] boom") {
		t.Errorf("stderr = %q", got)
	}
}

func TestQuietMode(t *testing.T) {
	p, stdout, stderr := plainPrinter(true)
	p.Info("x")
	p.Success("x")
	p.Warning("x")
	p.Fields("Status", "ACTIVE")
	p.Print("x")
	p.PrintHints("login")
	if stdout.Len() != 0 || stderr.Len() != 0 {
		t.Errorf("quiet printer wrote %q / %q", stdout.String(), stderr.String())
	}
	p.Error("still shown")
	if stderr.Len() == 0 {
		t.Error("Error output should not be suppressed in quiet mode")
	}
}

func TestStatusBadgePlain(t *testing.T) {
	p, _, _ := plainPrinter(false)
	if got := p.StatusBadge("PENDING"); got != "[PENDING]" {
		t.Errorf("StatusBadge = %q", got)
	}
}

func TestFieldsAlignsLabels(t *testing.T) {
	p, stdout, _ := plainPrinter(false)
	p.Fields("ID", "p1", "Premium", "$120.00", "Odd")
	want := "ID:       p1\nPremium:  $120.00\n"
	if got := stdout.String(); got != want {
		t.Errorf("Fields = %q, want %q", got, want)
	}
}

func TestFormatError(t *testing.T) {
	p, _, stderr := plainPrinter(false)
	p.FormatError(NotLoggedIn())
	out := stderr.String()
	if !strings.Contains(out, "[ERROR] not logged in") || !strings.Contains(out, "Suggestion: Run 'insurely login'") {
		t.Errorf("FormatError output = %q", out)
	}
	if strings.Contains(out, "Cause:") || strings.Contains(out, "Backend status:") {
		t.Errorf("should not contain Cause or status lines: %q", out)
	}
}

func TestFormatErrorListsFieldProblems(t *testing.T) {
	p, _, stderr := plainPrinter(false)
	p.FormatError(InvalidInput(map[string]string{
		"nomineeName": "nomineeName is required",
		"amount":      "amount must be greater than 0",
	}))
	want := "[ERROR] invalid input\n" +
		"  - amount must be greater than 0\n" +
		"  - nomineeName is required\n" +
		"  Suggestion: Check the flags with --help\n"
	if got := stderr.String(); got != want {
		t.Errorf("FormatError output = %q, want %q", got, want)
	}
}

func TestFormatErrorBackendStatus(t *testing.T) {
	p, _, stderr := plainPrinter(false)
	p.FormatError(&CLIError{Summary: "Claim not found", BackendStatus: 404, ExitCode: ExitGeneral})
	if !strings.Contains(stderr.String(), "Backend status: 404") {
		t.Errorf("FormatError output = %q", stderr.String())
	}
}

func TestPermissionDenied(t *testing.T) {
	e := PermissionDenied("insurely admin summary", "")
	if e.ExitCode != ExitForbidden {
		t.Errorf("ExitCode = %d, want %d", e.ExitCode, ExitForbidden)
	}
	if want := `insurely admin summary is not available to role "none"`; e.Detail != want {
		t.Errorf("Detail = %q, want %q", e.Detail, want)
	}
}

func TestPrintHints(t *testing.T) {
	p, stdout, _ := plainPrinter(false)
	p.PrintHints("policies list")
	if !strings.Contains(stdout.String(), "See also: insurely policies show <id>") {
		t.Errorf("hints = %q", stdout.String())
	}
	stdout.Reset()
	p.PrintHints("nonexistent")
	if stdout.Len() != 0 {
		t.Errorf("expected no output for unknown command, got: %q", stdout.String())
	}
}

func TestTable(t *testing.T) {
	p, stdout, _ := plainPrinter(false)
	tbl := p.NewTable("ID", "TITLE")
	tbl.AddRow("p1", "Health Basic")
	tbl.AddRow("p2", "Motor Plus")
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d", tbl.Len())
	}
	if err := tbl.Render(); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"ID", "TITLE", "Health Basic", "Motor Plus"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q: %q", want, out)
		}
	}
}
