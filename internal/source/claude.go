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

// ClaudeExtractor reads Claude Code JSONL session files under
// <root>/projects. One .jsonl file is one session; subagent transcripts
// nested under a session directory are their own sessions.
type ClaudeExtractor struct {
	root string
	opts digest.Options
}

// NewClaudeExtractor builds the extractor. An empty root falls back to
// ~/.claude.
func NewClaudeExtractor(root string, opts digest.Options) *ClaudeExtractor {
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".claude")
	}
	return &ClaudeExtractor{root: root, opts: opts}
}

// Name implements Extractor.
func (e *ClaudeExtractor) Name() string { return string(model.ToolClaudeCode) }

// Available implements Extractor.
func (e *ClaudeExtractor) Available() bool {
	info, err := os.Stat(filepath.Join(e.root, "projects"))
	return err == nil && info.IsDir()
}

// Sessions implements Extractor.
func (e *ClaudeExtractor) Sessions(date string) ([]model.Session, error) {
	day, err := ParseDay(date)
	if err != nil {
		return nil, err
	}

	files := e.discover()
	var sessions []model.Session
	for _, path := range files {
		if s, ok := e.extractFile(path, day); ok {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

// discover walks the projects directory for .jsonl transcripts. Unreadable
// entries are skipped, a missing root yields nothing.
func (e *ClaudeExtractor) discover() []string {
	projectsDir := filepath.Join(e.root, "projects")

	var files []string
	_ = filepath.WalkDir(projectsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() || filepath.Ext(path) != ".jsonl" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files
}

// claudeLine is the subset of a Claude Code JSONL record devday consumes.
type claudeLine struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Cwd       string `json:"cwd,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Message   *struct {
		ID      string          `json:"id"`
		Role    string          `json:"role"`
		Model   string          `json:"model"`
		Content json.RawMessage `json:"content"`
		Usage   json.RawMessage `json:"usage,omitempty"`
	} `json:"message,omitempty"`
}

// claudeBlock is one element of an array-shaped message content.
type claudeBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Name      string          `json:"name,omitempty"`  // tool_use
	Input     json.RawMessage `json:"input,omitempty"` // tool_use
	Content   json.RawMessage `json:"content,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
}

// extractFile streams one transcript. Malformed lines are skipped; a file
// that cannot be opened contributes no session.
func (e *ClaudeExtractor) extractFile(path string, day DayWindow) (model.Session, bool) {
	f, err := os.Open(path)
	if err != nil {
		return model.Session{}, false
	}
	defer func() { _ = f.Close() }()

	b := newSessionBuilder(model.ToolClaudeCode, day, strings.TrimSuffix(filepath.Base(path), ".jsonl"), e.opts)

	// Usage is deduplicated by message id: streamed entries repeat the
	// same id and the last report carries the final billed counts.
	usageByMsg := make(map[string]model.TokenUsage)
	seenAssistantMsg := make(map[string]struct{})

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 10*1024*1024)

	for scanner.Scan() {
		var line claudeLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			continue
		}

		// Metadata applies unconditionally, in-day or not.
		b.setID(line.SessionID)
		b.setProjectPath(line.Cwd)
		if line.Type == "summary" {
			b.setSummary(line.Summary)
			continue
		}

		ts := parseClaudeTime(line.Timestamp)

		switch line.Type {
		case "user":
			e.consumeUserLine(b, ts, line)
		case "assistant":
			e.consumeAssistantLine(b, ts, line, usageByMsg, seenAssistantMsg)
		case "system":
			// Turn boundary: counts as activity only.
			b.markActivity(ts)
		}
	}

	for _, u := range usageByMsg {
		b.addUsage(time.Time{}, u)
	}

	return b.finish()
}

func (e *ClaudeExtractor) consumeUserLine(b *sessionBuilder, ts time.Time, line claudeLine) {
	if line.Message == nil {
		b.markActivity(ts)
		return
	}

	// String content is a plain prompt.
	var text string
	if err := json.Unmarshal(line.Message.Content, &text); err == nil {
		b.addUserMessage(ts, text)
		return
	}

	// Array content mixes typed blocks; tool_result blocks are results of
	// an earlier invocation, not something the user typed.
	var blocks []claudeBlock
	if err := json.Unmarshal(line.Message.Content, &blocks); err != nil {
		b.markActivity(ts)
		return
	}

	var texts []string
	sawToolResult := false
	for _, blk := range blocks {
		switch blk.Type {
		case "text":
			if blk.Text != "" {
				texts = append(texts, blk.Text)
			}
		case "tool_result":
			sawToolResult = true
			for _, p := range HarvestFilePaths(decodeJSONValue(blk.Content)) {
				b.addFile(p)
			}
		}
	}

	if len(texts) > 0 {
		b.addUserMessage(ts, strings.Join(texts, "\n"))
	} else if sawToolResult {
		b.markActivity(ts)
	}
}

func (e *ClaudeExtractor) consumeAssistantLine(
	b *sessionBuilder,
	ts time.Time,
	line claudeLine,
	usageByMsg map[string]model.TokenUsage,
	seenMsg map[string]struct{},
) {
	if line.Message == nil {
		b.markActivity(ts)
		return
	}
	msg := line.Message
	b.addModel(msg.Model)

	var texts []string
	var blocks []claudeBlock
	if err := json.Unmarshal(msg.Content, &blocks); err == nil {
		for _, blk := range blocks {
			switch blk.Type {
			case "text":
				if blk.Text != "" {
					texts = append(texts, blk.Text)
				}
			case "tool_use":
				b.addToolCall(ts, blk.Name, decodeJSONValue(blk.Input), nil)
			}
		}
	} else {
		var text string
		if json.Unmarshal(msg.Content, &text) == nil && text != "" {
			texts = append(texts, text)
		}
	}

	// Entries repeating a message id are partial snapshots of one API
	// response; count the message once.
	countIt := true
	if msg.ID != "" {
		if _, ok := seenMsg[msg.ID]; ok {
			countIt = false
		} else {
			seenMsg[msg.ID] = struct{}{}
		}
	}

	if countIt {
		b.addAssistantMessage(ts, strings.Join(texts, "\n"))
	} else {
		if len(texts) > 0 {
			// Later block of the same message: digest the text without
			// double-counting the message.
			if b.day.Contains(ts) {
				b.fragments = append(b.fragments, digest.Fragment("Assistant", strings.Join(texts, "\n"), b.opts.MessageMaxChars))
			}
		}
		b.markActivity(ts)
	}

	if len(msg.Usage) > 0 && b.day.Contains(ts) {
		var raw map[string]any
		if json.Unmarshal(msg.Usage, &raw) == nil {
			key := msg.ID
			if key == "" {
				key = line.Timestamp
			}
			usageByMsg[key] = ExtractUsage(raw)
		}
	}
}

func parseClaudeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// decodeJSONValue unmarshals raw JSON into the generic any shape the
// harvesting helpers walk. Nil or invalid input yields nil.
func decodeJSONValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
