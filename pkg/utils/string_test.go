package utils

import "testing"

func TestStringHelper_NormalizeWhitespace(t *testing.T) {
	s := NewStringHelper()

	tests := []struct {
		input string
		want  string
	}{
		{"  a   b\t\nc ", "a b c"},
		{"", ""},
		{"   ", ""},
		{"a b", "a b"},
	}

	for _, tt := range tests {
		if got := s.NormalizeWhitespace(tt.input); got != tt.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStringHelper_ReplaceAny(t *testing.T) {
	s := NewStringHelper()

	got := s.ReplaceAny(`a/b\c:d`, `\/:`, "-")
	if got != "a-b-c-d" {
		t.Errorf("ReplaceAny() = %q, want %q", got, "a-b-c-d")
	}
}

func TestStringHelper_TruncateString(t *testing.T) {
	s := NewStringHelper()

	tests := []struct {
		input string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a long participant name", 10, "a long ..."},
		{"anything", 0, "anything"},
	}

	for _, tt := range tests {
		if got := s.TruncateString(tt.input, tt.width); got != tt.want {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}
