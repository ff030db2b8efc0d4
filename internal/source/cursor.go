package source

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/scottatron-wd/devday/internal/digest"
	"github.com/scottatron-wd/devday/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// CursorExtractor reads Cursor's composer history out of the embedded
// SQLite database at <root>/globalStorage/state.vscdb. Each composerData
// row is one session.
type CursorExtractor struct {
	root string
	opts digest.Options
}

// NewCursorExtractor builds the extractor. An empty root falls back to the
// platform's Cursor user-data directory.
func NewCursorExtractor(root string, opts digest.Options) *CursorExtractor {
	if root == "" {
		root = defaultCursorRoot()
	}
	return &CursorExtractor{root: root, opts: opts}
}

func defaultCursorRoot() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Cursor", "User")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Cursor", "User")
	default:
		return filepath.Join(home, ".config", "Cursor", "User")
	}
}

func (e *CursorExtractor) dbPath() string {
	return filepath.Join(e.root, "globalStorage", "state.vscdb")
}

// Name implements Extractor.
func (e *CursorExtractor) Name() string { return string(model.ToolCursor) }

// Available implements Extractor.
func (e *CursorExtractor) Available() bool {
	_, err := os.Stat(e.dbPath())
	return err == nil
}

// Sessions implements Extractor.
func (e *CursorExtractor) Sessions(date string) ([]model.Session, error) {
	day, err := ParseDay(date)
	if err != nil {
		return nil, err
	}
	if !e.Available() {
		return nil, nil
	}

	// Read-only open: the source database is never mutated, and immutable
	// mode avoids locking against a running Cursor instance.
	db, err := sql.Open("sqlite", "file:"+e.dbPath()+"?mode=ro&immutable=1")
	if err != nil {
		return nil, nil
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query(`SELECT key, value FROM cursorDiskKV WHERE key LIKE 'composerData:%'`)
	if err != nil {
		return nil, nil
	}
	defer func() { _ = rows.Close() }()

	var sessions []model.Session
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		if s, ok := e.extractComposer(key, value, day); ok {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

// cursorComposer is the subset of a composerData JSON blob devday reads.
type cursorComposer struct {
	ComposerID    string `json:"composerId"`
	Name          string `json:"name,omitempty"`
	CreatedAt     int64  `json:"createdAt,omitempty"`     // unix ms
	LastUpdatedAt int64  `json:"lastUpdatedAt,omitempty"` // unix ms
	Conversation  []struct {
		Type          int             `json:"type"` // 1 user, 2 assistant
		Text          string          `json:"text,omitempty"`
		RelevantFiles []string        `json:"relevantFiles,omitempty"`
		TimingInfo    *struct {
			ClientStartTime int64 `json:"clientStartTime,omitempty"` // unix ms
		} `json:"timingInfo,omitempty"`
		TokenCount json.RawMessage `json:"tokenCount,omitempty"`
		ModelType  string          `json:"modelType,omitempty"`
	} `json:"conversation,omitempty"`
}

func (e *CursorExtractor) extractComposer(key string, value []byte, day DayWindow) (model.Session, bool) {
	var comp cursorComposer
	if err := json.Unmarshal(value, &comp); err != nil {
		return model.Session{}, false
	}

	b := newSessionBuilder(model.ToolCursor, day, key, e.opts)
	b.setID(comp.ComposerID)
	if comp.Name != "" {
		b.title = InferTitle(comp.Name)
	}

	created := unixMillis(comp.CreatedAt)
	updated := unixMillis(comp.LastUpdatedAt)
	b.observe(created)
	b.observe(updated)

	for _, bubble := range comp.Conversation {
		ts := updated
		if bubble.TimingInfo != nil && bubble.TimingInfo.ClientStartTime > 0 {
			ts = unixMillis(bubble.TimingInfo.ClientStartTime)
		}
		if ts.IsZero() {
			ts = created
		}

		switch bubble.Type {
		case 1:
			b.addUserMessage(ts, bubble.Text)
		case 2:
			b.addAssistantMessage(ts, bubble.Text)
			if b.day.Contains(ts) {
				b.addModel(bubble.ModelType)
			}
		default:
			continue
		}

		if b.day.Contains(ts) {
			for _, f := range bubble.RelevantFiles {
				if looksLikePath(f) {
					b.addFile(f)
				}
			}
			if len(bubble.TokenCount) > 0 {
				var raw map[string]any
				if json.Unmarshal(bubble.TokenCount, &raw) == nil {
					b.addUsage(time.Time{}, ExtractUsage(raw))
				}
			}
		}
	}

	return b.finish()
}

func unixMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
