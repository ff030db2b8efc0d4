package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scottatron-wd/devday/internal/digest"
	"github.com/scottatron-wd/devday/internal/model"
)

// GeminiExtractor reads Gemini CLI history: structured chat files under
// <root>/tmp/<hash>/chats plus the logs.json sidecar next to them. One
// chat file is one session; the sidecar backfills user prompts that the
// chat file dropped.
type GeminiExtractor struct {
	root string
	opts digest.Options
}

// NewGeminiExtractor builds the extractor. An empty root falls back to
// ~/.gemini.
func NewGeminiExtractor(root string, opts digest.Options) *GeminiExtractor {
	if root == "" {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, ".gemini")
	}
	return &GeminiExtractor{root: root, opts: opts}
}

// Name implements Extractor.
func (e *GeminiExtractor) Name() string { return string(model.ToolGemini) }

// Available implements Extractor.
func (e *GeminiExtractor) Available() bool {
	info, err := os.Stat(filepath.Join(e.root, "tmp"))
	return err == nil && info.IsDir()
}

// Sessions implements Extractor.
func (e *GeminiExtractor) Sessions(date string) ([]model.Session, error) {
	day, err := ParseDay(date)
	if err != nil {
		return nil, err
	}

	tmpDir := filepath.Join(e.root, "tmp")
	hashDirs, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, nil
	}

	var sessions []model.Session
	for _, hd := range hashDirs {
		if !hd.IsDir() {
			continue
		}
		projectDir := filepath.Join(tmpDir, hd.Name())
		sidecar := readGeminiSidecar(filepath.Join(projectDir, "logs.json"))

		chatFiles, err := os.ReadDir(filepath.Join(projectDir, "chats"))
		if err != nil {
			continue
		}
		for _, cf := range chatFiles {
			if cf.IsDir() || !strings.HasSuffix(cf.Name(), ".json") {
				continue
			}
			path := filepath.Join(projectDir, "chats", cf.Name())
			if s, ok := e.extractChat(path, sidecar, day); ok {
				sessions = append(sessions, s)
			}
		}
	}
	return sessions, nil
}

// geminiChat is a structured chat file.
type geminiChat struct {
	SessionID   string `json:"sessionId"`
	ProjectHash string `json:"projectHash,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
	Messages    []struct {
		ID        string          `json:"id,omitempty"`
		Timestamp string          `json:"timestamp,omitempty"`
		Type      string          `json:"type"` // "user" or "gemini"
		Content   string          `json:"content,omitempty"`
		Model     string          `json:"model,omitempty"`
		Tokens    json.RawMessage `json:"tokens,omitempty"`
		ToolCalls []struct {
			Name   string          `json:"name"`
			Args   json.RawMessage `json:"args,omitempty"`
			Result json.RawMessage `json:"result,omitempty"`
		} `json:"toolCalls,omitempty"`
	} `json:"messages"`
}

// geminiLogEntry is one record of the logs.json sidecar.
type geminiLogEntry struct {
	SessionID string `json:"sessionId"`
	MessageID int    `json:"messageId"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func readGeminiSidecar(path string) []geminiLogEntry {
	data, err := os.ReadFile(path) //nolint:gosec // path is under the configured root
	if err != nil {
		return nil
	}
	var entries []geminiLogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

func (e *GeminiExtractor) extractChat(path string, sidecar []geminiLogEntry, day DayWindow) (model.Session, bool) {
	data, err := os.ReadFile(path) //nolint:gosec // discovered under the configured root
	if err != nil {
		return model.Session{}, false
	}

	var chat geminiChat
	if err := json.Unmarshal(data, &chat); err != nil {
		return model.Session{}, false
	}

	b := newSessionBuilder(model.ToolGemini, day, strings.TrimSuffix(filepath.Base(path), ".json"), e.opts)
	b.setID(chat.SessionID)
	b.observe(parseClaudeTime(chat.StartTime))
	b.observe(parseClaudeTime(chat.LastUpdated))

	sawUserContent := false
	for _, msg := range chat.Messages {
		ts := parseClaudeTime(msg.Timestamp)

		switch msg.Type {
		case "user":
			if msg.Content != "" {
				sawUserContent = true
				b.addUserMessage(ts, msg.Content)
			} else {
				b.markActivity(ts)
			}
		case "gemini", "assistant":
			b.addAssistantMessage(ts, msg.Content)
			if b.day.Contains(ts) {
				b.addModel(msg.Model)
			}
		default:
			continue
		}

		for _, tc := range msg.ToolCalls {
			b.addToolCall(ts, tc.Name, decodeJSONValue(tc.Args), decodeJSONValue(tc.Result))
		}

		if len(msg.Tokens) > 0 && b.day.Contains(ts) {
			var raw map[string]any
			if json.Unmarshal(msg.Tokens, &raw) == nil {
				b.addUsage(time.Time{}, ExtractUsage(raw))
			}
		}
	}

	// The chat file sometimes stores user turns without their text; the
	// sidecar keeps the raw prompts keyed by session.
	if !sawUserContent {
		for _, entry := range sidecar {
			if entry.SessionID != chat.SessionID || entry.Type != "user" {
				continue
			}
			b.addUserMessage(parseClaudeTime(entry.Timestamp), entry.Message)
		}
	}

	return b.finish()
}
