package source

import "strings"

// MaxTitleChars bounds inferred session titles.
const MaxTitleChars = 60

// envelopeMarkers flag user-role records that are really injected
// system/environment payloads, not something the human typed.
var envelopeMarkers = []string{
	"<environment_context>",
	"<system-reminder>",
	"<command-name>",
	"<local-command-stdout",
	"<user-memory-input>",
	"<task-reminder",
	"<teammate-message",
	"<permissions",
	"Caveat: the messages below",
	"[Request interrupted",
	"AGENTS.md",
}

// LooksLikeEnvelope reports whether a user message is an injected
// system/environment envelope rather than a real prompt.
func LooksLikeEnvelope(text string) bool {
	for _, m := range envelopeMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// InferTitle collapses a user message into a single-line title capped at
// MaxTitleChars characters.
func InferTitle(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > MaxTitleChars {
		return string(runes[:MaxTitleChars])
	}
	return text
}
