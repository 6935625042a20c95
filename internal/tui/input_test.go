package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name string
		kind inputKind
		text string
		key  string
		want string
	}{
		{"text appends", inputText, "Jan", "e", "Jane"},
		{"text space key", inputText, "Jane", "space", "Jane "},
		{"text accepts unicode", inputText, "Jos", "é", "José"},
		{"backspace", inputText, "Jane", "backspace", "Jan"},
		{"backspace empty", inputText, "", "backspace", ""},
		{"backspace multibyte", inputText, "hellé", "backspace", "hell"},
		{"backspace emoji", inputText, "ok\U0001f600", "backspace", "ok"},
		{"named key ignored", inputText, "Jane", "enter", "Jane"},
		{"shift+enter ignored", inputText, "Jane", "shift+enter", "Jane"},
		{"multi-rune key ignored", inputText, "Jane", "ab", "Jane"},
		{"amount digit", inputAmount, "12", "5", "125"},
		{"amount first point", inputAmount, "12", ".", "12."},
		{"amount second point", inputAmount, "12.5", ".", "12.5"},
		{"amount letter", inputAmount, "12", "x", "12"},
		{"amount minus", inputAmount, "", "-", ""},
		{"number digit", inputNumber, "1", "2", "12"},
		{"number point", inputNumber, "1", ".", "1"},
		{"number limit", inputNumber, "1200", "0", "1200"},
		{"date dash", inputDate, "2026", "-", "2026-"},
		{"date letter", inputDate, "2026-", "a", "2026-"},
		{"date full", inputDate, "2026-01-02", "3", "2026-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editRune(tt.kind, tt.text, tt.key); got != tt.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tt.text, tt.key, got, tt.want)
			}
		})
	}
}

func TestEditRuneTextLimit(t *testing.T) {
	full := strings.Repeat("a", inputText.maxLen())
	if got := editRune(inputText, full, "b"); got != full {
		t.Errorf("editRune past limit grew to %d runes", len([]rune(got)))
	}
	if got := editRune(inputText, full, "backspace"); len(got) != len(full)-1 {
		t.Errorf("backspace at limit left %d runes", len(got))
	}
}

func TestFormFieldKindFiltersTyping(t *testing.T) {
	f := newForm("Pay",
		formField{key: "amount", label: "Amount", kind: inputAmount},
		formField{key: "note", label: "Note"},
	)
	for _, r := range "1a2.5.0" {
		f, _ = f.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if got := f.value("amount"); got != "12.50" {
		t.Errorf("amount = %q, want %q", got, "12.50")
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Home cover", 20, "Home cover"},
		{"Home cover", 10, "Home cover"},
		{"Home cover plus", 10, "Home cove…"},
		{"Assurance vie", 5, "Assu…"},
		{"éééééé", 4, "ééé…"},
	}
	for _, tt := range tests {
		if got := truncStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	body := "a\nb\nc\nd\n"
	tests := []struct {
		name string
		max  int
		want string
	}{
		{"limits lines", 2, "a\nb\n"},
		{"exact fit", 4, body},
		{"more room than lines", 10, body},
		{"zero keeps all", 0, body},
		{"negative keeps all", -1, body},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateToHeight(body, tt.max); got != tt.want {
				t.Errorf("truncateToHeight(%d) = %q, want %q", tt.max, got, tt.want)
			}
		})
	}
}
