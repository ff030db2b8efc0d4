package source

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/scottatron-wd/devday/internal/digest"
)

func writeRollout(t *testing.T, lines ...string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "sessions", "2025", "06", "01")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	path := filepath.Join(dir, "rollout-2025-06-01T09-00-00-abc.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestCodexExtractor_FullSession(t *testing.T) {
	root := writeRollout(t,
		fmt.Sprintf(`{"timestamp":%q,"type":"session_meta","payload":{"id":"rollout-abc","cwd":"/home/u/api"}}`, stamp(9, 0, 0)),
		fmt.Sprintf(`{"timestamp":%q,"type":"turn_context","payload":{"cwd":"/home/u/api","model":"gpt-5"}}`, stamp(9, 0, 1)),
		fmt.Sprintf(`{"timestamp":%q,"type":"response_item","payload":{"type":"message","role":"user","content":[{"type":"input_text","text":"rename the handler"}]}}`, stamp(9, 0, 2)),
		fmt.Sprintf(`{"timestamp":%q,"type":"response_item","payload":{"type":"function_call","name":"shell","arguments":"{\"command\":\"grep -r handler\"}"}}`, stamp(9, 0, 10)),
		fmt.Sprintf(`{"timestamp":%q,"type":"response_item","payload":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"Renamed it in server.go."}]}}`, stamp(9, 0, 40)),
		fmt.Sprintf(`{"timestamp":%q,"type":"event_msg","payload":{"type":"token_count","info":{"total_token_usage":{"input_tokens":9999,"output_tokens":9999},"last_token_usage":{"input_tokens":250,"output_tokens":80}}}}`, stamp(9, 0, 41)),
	)

	e := NewCodexExtractor(root, digest.DefaultOptions())
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
	if s.ID != "rollout-abc" {
		t.Errorf("ID = %q", s.ID)
	}
	if s.ProjectName != "api" {
		t.Errorf("ProjectName = %q", s.ProjectName)
	}
	if s.Title != "rename the handler" {
		t.Errorf("Title = %q", s.Title)
	}
	if len(s.Models) != 1 || s.Models[0] != "gpt-5" {
		t.Errorf("Models = %v", s.Models)
	}
	// Per-turn usage accumulates, not the running total.
	if s.Tokens.Input != 250 || s.Tokens.Output != 80 {
		t.Errorf("Tokens = %+v", s.Tokens)
	}
	if len(s.ToolCallSummaries) != 1 || s.ToolCallSummaries[0] != "bash: grep -r handler" {
		t.Errorf("ToolCallSummaries = %v", s.ToolCallSummaries)
	}
	if s.UserMessageCount != 1 || s.AssistantMessageCount != 1 {
		t.Errorf("counts = %d/%d", s.UserMessageCount, s.AssistantMessageCount)
	}
}

func TestCodexExtractor_OutOfDayOnly(t *testing.T) {
	root := writeRollout(t,
		`{"timestamp":"2025-05-30T12:00:00Z","type":"session_meta","payload":{"id":"old","cwd":"/home/u/api"}}`,
		`{"timestamp":"2025-05-30T12:00:05Z","type":"response_item","payload":{"type":"message","role":"user","content":[{"type":"input_text","text":"old work"}]}}`,
	)

	e := NewCodexExtractor(root, digest.DefaultOptions())
	sessions, err := e.Sessions("2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions, want none", len(sessions))
	}
}

func TestCodexExtractor_MissingRoot(t *testing.T) {
	e := NewCodexExtractor(filepath.Join(t.TempDir(), "nope"), digest.DefaultOptions())
	if e.Available() {
		t.Error("missing root should not be available")
	}
	sessions, err := e.Sessions("2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("got %d sessions", len(sessions))
	}
}
