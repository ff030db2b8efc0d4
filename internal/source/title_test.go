package source

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLooksLikeEnvelope(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<system-reminder>stay focused</system-reminder>", true},
		{"<command-name>/clear</command-name>", true},
		{"Caveat: the messages below were generated by the user", true},
		{"[Request interrupted by user]", true},
		{"  <environment_context>...", true},
		{"fix the login bug", false},
		{"why does <T> not compile", false},
	}
	for _, tt := range tests {
		if got := LooksLikeEnvelope(tt.in); got != tt.want {
			t.Errorf("LooksLikeEnvelope(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInferTitle(t *testing.T) {
	got := InferTitle("  fix   the\nflaky\ttest  ")
	if got != "fix the flaky test" {
		t.Errorf("InferTitle = %q", got)
	}
}

func TestInferTitle_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := InferTitle(long)
	if utf8.RuneCountInString(got) > MaxTitleChars {
		t.Errorf("title has %d runes, want at most %d", utf8.RuneCountInString(got), MaxTitleChars)
	}
}
