package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/internal/forms"
)

type formField struct {
	key    string // json name, matched against validation errors
	label  string
	value  string
	secret bool
	kind   inputKind
	// picker fields cycle through choices with left/right.
	picker  bool
	choices []string
	labels  []string
}

func (f formField) display() string {
	if !f.picker {
		if f.secret {
			return strings.Repeat("•", len([]rune(f.value)))
		}
		return f.value
	}
	for i, c := range f.choices {
		if c == f.value && i < len(f.labels) {
			return f.labels[i]
		}
	}
	return f.value
}

// formModel is a vertical list of inputs with one focused field.
type formModel struct {
	title      string
	fields     []formField
	focus      int
	errs       map[string]string
	status     string
	submitting bool
}

type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

func newForm(title string, fields ...formField) formModel {
	return formModel{title: title, fields: fields}
}

func (m formModel) value(key string) string {
	for _, f := range m.fields {
		if f.key == key {
			return f.value
		}
	}
	return ""
}

func (m *formModel) set(key, value string) {
	for i := range m.fields {
		if m.fields[i].key == key {
			m.fields[i].value = value
		}
	}
}

// setChoices replaces a picker's options, keeping the current value if it
// is still offered.
func (m *formModel) setChoices(key string, choices, labels []string) {
	for i := range m.fields {
		f := &m.fields[i]
		if f.key != key {
			continue
		}
		f.choices, f.labels = choices, labels
		keep := false
		for _, c := range choices {
			if c == f.value {
				keep = true
			}
		}
		if !keep {
			f.value = ""
			if len(choices) > 0 {
				f.value = choices[0]
			}
		}
	}
}

// setError shows err under the form. Validation errors are attached to
// their fields.
func (m *formModel) setError(err error, fallback string) {
	m.submitting = false
	var verr *forms.ValidationError
	if asValidation(err, &verr) {
		m.errs = verr.Errors
		m.status = ""
		return
	}
	m.errs = nil
	m.status = userMessage(err, fallback)
}

func (m formModel) update(msg tea.KeyMsg) (formModel, formAction) {
	if m.submitting {
		return m, formNone
	}
	n := len(m.fields)
	switch msg.String() {
	case "esc":
		return m, formCancel
	case "ctrl+s":
		return m, formSubmit
	case "tab", "down":
		m.focus = (m.focus + 1) % n
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
	case "enter":
		if m.focus == n-1 {
			return m, formSubmit
		}
		m.focus++
	case "left", "right":
		f := &m.fields[m.focus]
		if !f.picker || len(f.choices) == 0 {
			return m, formNone
		}
		idx := 0
		for i, c := range f.choices {
			if c == f.value {
				idx = i
			}
		}
		if msg.String() == "right" {
			idx = (idx + 1) % len(f.choices)
		} else {
			idx = (idx - 1 + len(f.choices)) % len(f.choices)
		}
		f.value = f.choices[idx]
	default:
		f := &m.fields[m.focus]
		if !f.picker {
			f.value = editRune(f.kind, f.value, msg.String())
		}
	}
	return m, formNone
}

func (m formModel) View() string {
	var b strings.Builder
	if m.title != "" {
		fmt.Fprintf(&b, " %s\n\n", titleStyle.Render(m.title))
	}
	for i, f := range m.fields {
		cursor := " "
		style := metaStyle
		value := f.display()
		if i == m.focus {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
			if !f.picker {
				value += "█"
			}
		}
		if f.picker {
			if f.value == "" {
				value = dimStyle.Render("(none available)")
			}
			value = "‹ " + value + " ›"
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, style.Render(fmt.Sprintf("%-18s", f.label)), value)
		if msg := m.errs[f.key]; msg != "" {
			fmt.Fprintf(&b, "   %s\n", errorStyle.Render(msg))
		}
	}
	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("submitting..."))
	case m.status != "":
		b.WriteString(" " + errorStyle.Render(m.status))
	}
	return b.String()
}
