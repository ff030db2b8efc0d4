// Package model defines the domain types shared across devday extractors
// and the recap assembly.
package model

import "time"

// Tool identifies which assistant produced a session.
type Tool string

// Known session sources.
const (
	ToolClaudeCode Tool = "claude-code"
	ToolCodex      Tool = "codex"
	ToolCursor     Tool = "cursor"
	ToolGemini     Tool = "gemini"
)

// TokenUsage holds token counts for one or more API calls.
// Total is maintained as the sum of the five buckets whenever devday
// computes it; partial usages may be combined with SumTokens.
type TokenUsage struct {
	Input      int64
	Output     int64
	Reasoning  int64
	CacheRead  int64
	CacheWrite int64
	Total      int64
}

// SumTokens combines usages by pointwise addition across every field,
// including Total. Zero operands yield the zero usage.
func SumTokens(usages ...TokenUsage) TokenUsage {
	var sum TokenUsage
	for _, u := range usages {
		sum.Input += u.Input
		sum.Output += u.Output
		sum.Reasoning += u.Reasoning
		sum.CacheRead += u.CacheRead
		sum.CacheWrite += u.CacheWrite
		sum.Total += u.Total
	}
	return sum
}

// NewTokenUsage builds a usage from the five buckets and derives Total.
func NewTokenUsage(input, output, reasoning, cacheRead, cacheWrite int64) TokenUsage {
	return TokenUsage{
		Input:      input,
		Output:     output,
		Reasoning:  reasoning,
		CacheRead:  cacheRead,
		CacheWrite: cacheWrite,
		Total:      input + output + reasoning + cacheRead + cacheWrite,
	}
}

// Session is one normalized conversation from one tool, clipped to a
// requested calendar day. It is built once per physical log unit during an
// extraction pass and never mutated or merged afterwards.
type Session struct {
	ID          string
	Tool        Tool
	ProjectPath string // working directory recorded by the tool, "" if unknown
	ProjectName string // display name derived from ProjectPath, "" if unknown
	Title       string // inferred from the first real user message, "" if none

	StartedAt  time.Time // clipped into the requested day window
	EndedAt    time.Time
	DurationMs int64 // gap-capped active time, see source.ActiveDuration

	MessageCount          int
	UserMessageCount      int
	AssistantMessageCount int

	Summary string // source-native summary only, "" when the source has none

	Tokens  TokenUsage
	CostUSD float64
	Models  []string // model identifiers seen, in first-seen order

	FilesTouched       []string // absolute paths, deduplicated
	ConversationDigest string
	ToolCallSummaries  []string // deduplicated short human-readable lines
}
