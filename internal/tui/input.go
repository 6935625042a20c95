package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// inputKind restricts which characters a form field accepts.
type inputKind int

const (
	inputText   inputKind = iota
	inputAmount           // digits and one decimal point
	inputNumber           // digits only
	inputDate             // YYYY-MM-DD
)

// maxLen is the rune limit for a field of this kind.
func (k inputKind) maxLen() int {
	switch k {
	case inputAmount:
		return 12
	case inputNumber:
		return 4
	case inputDate:
		return len("2006-01-02")
	}
	return 500
}

// accepts reports whether r may be appended to text.
func (k inputKind) accepts(text string, r rune) bool {
	switch k {
	case inputAmount:
		return unicode.IsDigit(r) || (r == '.' && !strings.ContainsRune(text, '.'))
	case inputNumber:
		return unicode.IsDigit(r)
	case inputDate:
		return unicode.IsDigit(r) || r == '-'
	}
	return unicode.IsPrint(r)
}

// editRune applies one keystroke to a field value. Backspace removes the
// last rune; a single accepted rune is appended up to the kind's limit.
// Named keys (enter, esc, arrows) leave the value unchanged.
func editRune(kind inputKind, text, key string) string {
	switch key {
	case "backspace":
		if text == "" {
			return text
		}
		_, size := utf8.DecodeLastRuneInString(text)
		return text[:len(text)-size]
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) != 1 {
		return text
	}
	r, _ := utf8.DecodeRuneInString(key)
	if !kind.accepts(text, r) || utf8.RuneCountInString(text) >= kind.maxLen() {
		return text
	}
	return text + key
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}
