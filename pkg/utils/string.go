package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// ReplaceAny replaces every rune of str found in chars with repl.
func (s *StringHelper) ReplaceAny(str, chars, repl string) string {
	var b strings.Builder

	b.Grow(len(str))

	for _, r := range str {
		if strings.ContainsRune(chars, r) {
			b.WriteString(repl)
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// TruncateString truncates str to maxWidth display columns, marking the cut with "...".
func (s *StringHelper) TruncateString(str string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}
