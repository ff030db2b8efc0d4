package source

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scottatron-wd/devday/internal/digest"
)

// writeTranscript lays out a fake ~/.claude tree with one JSONL session
// file and returns the root.
func writeTranscript(t *testing.T, name string, lines ...string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "projects", "-home-u-proj")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

// stamp formats a local-time instant on the test day the way Claude Code
// writes timestamps.
func stamp(hour, min, sec int) string {
	return time.Date(2025, 6, 1, hour, min, sec, 0, time.Local).Format(time.RFC3339)
}

func TestClaudeExtractor_FullSession(t *testing.T) {
	root := writeTranscript(t, "abc123.jsonl",
		fmt.Sprintf(`{"type":"user","timestamp":%q,"sessionId":"sess-abc","cwd":"/home/u/proj","message":{"role":"user","content":"add retry logic to the fetcher"}}`, stamp(9, 0, 0)),
		fmt.Sprintf(`{"type":"assistant","timestamp":%q,"sessionId":"sess-abc","cwd":"/home/u/proj","message":{"id":"msg_1","role":"assistant","model":"claude-sonnet-4-5-20250929","content":[{"type":"text","text":"Adding retries now."},{"type":"tool_use","name":"Edit","input":{"file_path":"/home/u/proj/fetch.go"}}],"usage":{"input_tokens":120,"output_tokens":40,"cache_read_input_tokens":300}}}`, stamp(9, 0, 30)),
		`this line is not json and must be skipped`,
	)

	e := NewClaudeExtractor(root, digest.DefaultOptions())
	if !e.Available() {
		t.Fatal("extractor should report available")
	}

	sessions, err := e.Sessions("2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}

	s := sessions[0]
	if s.ID != "sess-abc" {
		t.Errorf("ID = %q", s.ID)
	}
	if s.ProjectPath != "/home/u/proj" || s.ProjectName != "proj" {
		t.Errorf("project = %q / %q", s.ProjectPath, s.ProjectName)
	}
	if s.UserMessageCount != 1 || s.AssistantMessageCount != 1 {
		t.Errorf("counts = %d/%d", s.UserMessageCount, s.AssistantMessageCount)
	}
	if s.Title != "add retry logic to the fetcher" {
		t.Errorf("Title = %q", s.Title)
	}
	if len(s.Models) != 1 || s.Models[0] != "claude-sonnet-4-5-20250929" {
		t.Errorf("Models = %v", s.Models)
	}
	if s.Tokens.Input != 120 || s.Tokens.Output != 40 || s.Tokens.CacheRead != 300 {
		t.Errorf("Tokens = %+v", s.Tokens)
	}
	if s.Tokens.Total != 460 {
		t.Errorf("Total = %d, want 460", s.Tokens.Total)
	}
	// Sonnet rates: 3/MTok in, 15/MTok out; cache reads unpriced.
	wantCost := 120*3.0/1e6 + 40*15.0/1e6
	if diff := s.CostUSD - wantCost; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("CostUSD = %v, want %v", s.CostUSD, wantCost)
	}
	if len(s.FilesTouched) != 1 || s.FilesTouched[0] != "/home/u/proj/fetch.go" {
		t.Errorf("FilesTouched = %v", s.FilesTouched)
	}
	if len(s.ToolCallSummaries) != 1 || s.ToolCallSummaries[0] != "Edit /home/u/proj/fetch.go" {
		t.Errorf("ToolCallSummaries = %v", s.ToolCallSummaries)
	}
	if s.DurationMs != 30_000 {
		t.Errorf("DurationMs = %d, want 30000", s.DurationMs)
	}
	if s.ConversationDigest == "" {
		t.Error("expected a conversation digest")
	}
}

func TestClaudeExtractor_DedupesStreamedAssistantEntries(t *testing.T) {
	root := writeTranscript(t, "s.jsonl",
		fmt.Sprintf(`{"type":"user","timestamp":%q,"sessionId":"s","message":{"role":"user","content":"hello"}}`, stamp(10, 0, 0)),
		fmt.Sprintf(`{"type":"assistant","timestamp":%q,"sessionId":"s","message":{"id":"msg_9","role":"assistant","content":[{"type":"text","text":"part one"}],"usage":{"input_tokens":10,"output_tokens":1}}}`, stamp(10, 0, 5)),
		fmt.Sprintf(`{"type":"assistant","timestamp":%q,"sessionId":"s","message":{"id":"msg_9","role":"assistant","content":[{"type":"text","text":"part two"}],"usage":{"input_tokens":10,"output_tokens":7}}}`, stamp(10, 0, 9)),
	)

	e := NewClaudeExtractor(root, digest.DefaultOptions())
	sessions, err := e.Sessions("2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions", len(sessions))
	}

	s := sessions[0]
	if s.AssistantMessageCount != 1 {
		t.Errorf("AssistantMessageCount = %d, want 1 for repeated message id", s.AssistantMessageCount)
	}
	// Last usage report for the id wins.
	if s.Tokens.Output != 7 {
		t.Errorf("Output = %d, want 7", s.Tokens.Output)
	}
}

func TestClaudeExtractor_OutOfDayOnly(t *testing.T) {
	root := writeTranscript(t, "old.jsonl",
		fmt.Sprintf(`{"type":"user","timestamp":%q,"sessionId":"old","message":{"role":"user","content":"yesterday"}}`, time.Date(2025, 5, 30, 12, 0, 0, 0, time.Local).Format(time.RFC3339)),
	)

	e := NewClaudeExtractor(root, digest.DefaultOptions())
	sessions, err := e.Sessions("2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions, want none outside the day window", len(sessions))
	}
}

func TestClaudeExtractor_SummaryRecord(t *testing.T) {
	root := writeTranscript(t, "s.jsonl",
		`{"type":"summary","summary":"Implement retry logic"}`,
		fmt.Sprintf(`{"type":"user","timestamp":%q,"sessionId":"s","message":{"role":"user","content":"go"}}`, stamp(11, 0, 0)),
	)

	e := NewClaudeExtractor(root, digest.DefaultOptions())
	sessions, _ := e.Sessions("2025-06-01")
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions", len(sessions))
	}
	if sessions[0].Summary != "Implement retry logic" {
		t.Errorf("Summary = %q", sessions[0].Summary)
	}
}

func TestClaudeExtractor_MissingRoot(t *testing.T) {
	e := NewClaudeExtractor(filepath.Join(t.TempDir(), "nope"), digest.DefaultOptions())
	if e.Available() {
		t.Error("missing root should not be available")
	}
	sessions, err := e.Sessions("2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions from a missing root", len(sessions))
	}
}
