package source

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scottatron-wd/devday/internal/digest"
	"github.com/scottatron-wd/devday/internal/model"
)

// CodexExtractor reads Codex CLI rollout files under <root>/sessions.
// Rollouts are JSONL: a session_meta record followed by response_item and
// event_msg records.
type CodexExtractor struct {
	root string
	opts digest.Options
}

// NewCodexExtractor builds the extractor. An empty root falls back to
// ~/.codex.
func NewCodexExtractor(root string, opts digest.Options) *CodexExtractor {
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".codex")
	}
	return &CodexExtractor{root: root, opts: opts}
}

// Name implements Extractor.
func (e *CodexExtractor) Name() string { return string(model.ToolCodex) }

// Available implements Extractor.
func (e *CodexExtractor) Available() bool {
	info, err := os.Stat(filepath.Join(e.root, "sessions"))
	return err == nil && info.IsDir()
}

// Sessions implements Extractor.
func (e *CodexExtractor) Sessions(date string) ([]model.Session, error) {
	day, err := ParseDay(date)
	if err != nil {
		return nil, err
	}

	sessionsDir := filepath.Join(e.root, "sessions")
	var sessions []model.Session
	_ = filepath.WalkDir(sessionsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jsonl") {
			return nil
		}
		if s, ok := e.extractFile(path, day); ok {
			sessions = append(sessions, s)
		}
		return nil
	})
	return sessions, nil
}

// codexLine is the envelope every rollout record shares.
type codexLine struct {
	Timestamp string          `json:"timestamp,omitempty"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (e *CodexExtractor) extractFile(path string, day DayWindow) (model.Session, bool) {
	f, err := os.Open(path)
	if err != nil {
		return model.Session{}, false
	}
	defer func() { _ = f.Close() }()

	b := newSessionBuilder(model.ToolCodex, day, strings.TrimSuffix(filepath.Base(path), ".jsonl"), e.opts)

	// Token counts arrive as running totals plus a per-turn report; the
	// per-turn report is what accumulates.
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 10*1024*1024)

	for scanner.Scan() {
		var line codexLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}
		ts := parseClaudeTime(line.Timestamp)

		switch line.Type {
		case "session_meta":
			var meta struct {
				ID  string `json:"id"`
				Cwd string `json:"cwd"`
			}
			if json.Unmarshal(line.Payload, &meta) == nil {
				b.setID(meta.ID)
				b.setProjectPath(meta.Cwd)
			}
			b.observe(ts)

		case "turn_context":
			var turn struct {
				Cwd   string `json:"cwd"`
				Model string `json:"model"`
			}
			if json.Unmarshal(line.Payload, &turn) == nil {
				b.setProjectPath(turn.Cwd)
				if b.day.Contains(ts) {
					b.addModel(turn.Model)
				}
			}
			b.markActivity(ts)

		case "response_item":
			e.consumeResponseItem(b, ts, line.Payload)

		case "event_msg":
			e.consumeEventMsg(b, ts, line.Payload)
		}
	}

	return b.finish()
}

func (e *CodexExtractor) consumeResponseItem(b *sessionBuilder, ts time.Time, payload json.RawMessage) {
	var item struct {
		Type      string          `json:"type"`
		Role      string          `json:"role,omitempty"`
		Content   json.RawMessage `json:"content,omitempty"`
		Name      string          `json:"name,omitempty"`      // function_call
		Arguments string          `json:"arguments,omitempty"` // function_call, JSON-encoded
		Output    json.RawMessage `json:"output,omitempty"`    // function_call_output
	}
	if err := json.Unmarshal(payload, &item); err != nil {
		return
	}

	switch item.Type {
	case "message":
		text := codexMessageText(item.Content)
		switch item.Role {
		case "user":
			b.addUserMessage(ts, text)
		case "assistant":
			b.addAssistantMessage(ts, text)
		}

	case "function_call":
		var args any
		if item.Arguments != "" {
			_ = json.Unmarshal([]byte(item.Arguments), &args)
		}
		b.addToolCall(ts, item.Name, args, nil)

	case "function_call_output":
		for _, p := range HarvestFilePaths(decodeJSONValue(item.Output)) {
			b.addFile(p)
		}
		b.markActivity(ts)
	}
}

func (e *CodexExtractor) consumeEventMsg(b *sessionBuilder, ts time.Time, payload json.RawMessage) {
	var event struct {
		Type string          `json:"type"`
		Info json.RawMessage `json:"info,omitempty"`
	}
	if err := json.Unmarshal(payload, &event); err != nil || event.Type != "token_count" {
		return
	}

	var info map[string]any
	if json.Unmarshal(event.Info, &info) != nil {
		return
	}
	// Prefer the per-turn usage over the running total.
	if last, ok := info["last_token_usage"].(map[string]any); ok {
		b.addUsage(ts, ExtractUsage(last))
		return
	}
	b.addUsage(ts, ExtractUsage(info))
}

// codexMessageText joins the text parts of a response_item message.
// Content is an array of {type, text} where type is input_text or
// output_text.
func codexMessageText(raw json.RawMessage) string {
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	var texts []string
	for _, p := range parts {
		if (p.Type == "input_text" || p.Type == "output_text" || p.Type == "text") && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}
