package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scottatron-wd/devday/internal/model"
)

func TestFallbackSummary(t *testing.T) {
	s := &model.Session{
		Tool:  model.ToolClaudeCode,
		Title: "fix flaky websocket test",
		ConversationDigest: "[User]: the websocket test fails every third run\n\n" +
			"[Assistant]: Looking at the retry loop.\n\n" +
			"[Assistant]: Fixed by waiting for the close frame.",
		FilesTouched: []string{"ws/conn_test.go"},
	}

	got := FallbackSummary(s)
	assert.Contains(t, got, "fix flaky websocket test.")
	assert.Contains(t, got, "the websocket test fails every third run")
	assert.Contains(t, got, "Fixed by waiting for the close frame")
	assert.Contains(t, got, "ws/conn_test.go")
}

func TestFallbackSummary_ToolNamesWhenNoAssistantText(t *testing.T) {
	s := &model.Session{
		Tool:               model.ToolCodex,
		Title:              "bulk rename",
		ConversationDigest: "[User]: rename everything",
		ToolCallSummaries:  []string{"bash: grep -r oldName", "Edit /a/b.go"},
	}

	got := FallbackSummary(s)
	assert.Contains(t, got, "bash: grep -r oldName")
	assert.Contains(t, got, "Edit /a/b.go")
}

func TestFallbackSummary_Deterministic(t *testing.T) {
	s := &model.Session{Tool: model.ToolGemini, Title: "t", ConversationDigest: "[User]: q"}
	assert.Equal(t, FallbackSummary(s), FallbackSummary(s))
}

func TestFallbackSummary_EmptySession(t *testing.T) {
	s := &model.Session{Tool: model.ToolCursor, MessageCount: 3}
	got := FallbackSummary(s)
	assert.Equal(t, "3-message cursor session.", got)
}

func TestExtractEvidenceSignals(t *testing.T) {
	text := "merged PR #482 as commit 3fa9c21 after fixing run 550e8400-e29b-41d4-a716-446655440000; see line 120453"
	signals := ExtractEvidenceSignals(text)

	assert.Contains(t, signals, "#482")
	assert.Contains(t, signals, "3fa9c21")
	assert.Contains(t, signals, "550e8400-e29b-41d4-a716-446655440000")
	assert.NotContains(t, signals, "120453", "pure digit runs are not commit hashes")
}

func TestExtractEvidenceSignals_DedupAndCap(t *testing.T) {
	text := strings.Repeat("#77 ", 10)
	assert.Equal(t, []string{"#77"}, ExtractEvidenceSignals(text))

	var many []string
	for _, n := range []string{"#1", "#2", "#3", "#4", "#5", "#6", "#7", "#8", "#9", "#10"} {
		many = append(many, n)
	}
	signals := ExtractEvidenceSignals(strings.Join(many, " "))
	assert.Len(t, signals, maxEvidenceSignals)
}

func TestLoadInstructions(t *testing.T) {
	assert.Equal(t, defaultInstructions, LoadInstructions(""))
	assert.Equal(t, defaultInstructions, LoadInstructions("/nonexistent/instructions.txt"))
}
