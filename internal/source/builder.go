package source

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/scottatron-wd/devday/internal/config"
	"github.com/scottatron-wd/devday/internal/digest"
	"github.com/scottatron-wd/devday/internal/model"
)

// MaxActivityGap caps the gap counted between consecutive activity
// timestamps, so unreliable idle gaps don't inflate session duration.
const MaxActivityGap = 5 * time.Minute

// ActiveDuration sums the gaps between consecutive activity timestamps,
// capping each positive gap at MaxActivityGap. Timestamps are re-sorted,
// so out-of-order input is fine.
func ActiveDuration(timestamps []time.Time) time.Duration {
	if len(timestamps) < 2 {
		return 0
	}

	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var total time.Duration
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Sub(sorted[i-1])
		if gap <= 0 {
			continue
		}
		if gap > MaxActivityGap {
			gap = MaxActivityGap
		}
		total += gap
	}
	return total
}

// sessionBuilder is the mutable accumulator each extractor drives while
// streaming one physical log unit. It is confined to a single extraction
// call and never shared.
type sessionBuilder struct {
	tool model.Tool
	day  DayWindow
	opts digest.Options

	id          string // source-native id; fallbackID used when never set
	fallbackID  string
	projectPath string
	summary     string

	minSeen time.Time // unclipped metadata timestamp span
	maxSeen time.Time

	activity []time.Time // in-day activity timestamps only

	userMessages      int
	assistantMessages int
	fragments         []string
	title             string

	models    []string
	modelSeen map[string]struct{}

	usage model.TokenUsage

	files        []string
	fileSeen     map[string]struct{}
	toolCalls    []string
	toolCallSeen map[string]struct{}
}

func newSessionBuilder(tool model.Tool, day DayWindow, fallbackID string, opts digest.Options) *sessionBuilder {
	return &sessionBuilder{
		tool:         tool,
		day:          day,
		opts:         opts,
		fallbackID:   fallbackID,
		modelSeen:    make(map[string]struct{}),
		fileSeen:     make(map[string]struct{}),
		toolCallSeen: make(map[string]struct{}),
	}
}

// observe extends the metadata timestamp span. Called for every timestamped
// record, in-day or not, since the span describes identity rather than
// activity.
func (b *sessionBuilder) observe(ts time.Time) {
	if ts.IsZero() {
		return
	}
	if b.minSeen.IsZero() || ts.Before(b.minSeen) {
		b.minSeen = ts
	}
	if b.maxSeen.IsZero() || ts.After(b.maxSeen) {
		b.maxSeen = ts
	}
}

func (b *sessionBuilder) setID(id string) {
	if id != "" {
		b.id = id
	}
}

func (b *sessionBuilder) setProjectPath(path string) {
	if path != "" {
		b.projectPath = path
	}
}

func (b *sessionBuilder) setSummary(s string) {
	if s != "" {
		b.summary = s
	}
}

func (b *sessionBuilder) addModel(name string) {
	if name == "" {
		return
	}
	if _, ok := b.modelSeen[name]; ok {
		return
	}
	b.modelSeen[name] = struct{}{}
	b.models = append(b.models, name)
}

// markActivity records an in-day activity timestamp (turn boundaries,
// usage reports). Returns whether ts was in-day.
func (b *sessionBuilder) markActivity(ts time.Time) bool {
	b.observe(ts)
	if !b.day.Contains(ts) {
		return false
	}
	b.activity = append(b.activity, ts)
	return true
}

func (b *sessionBuilder) addUserMessage(ts time.Time, text string) {
	if !b.markActivity(ts) {
		return
	}
	b.userMessages++
	if text != "" {
		b.fragments = append(b.fragments, digest.Fragment("User", text, b.opts.MessageMaxChars))
		if b.title == "" && !LooksLikeEnvelope(text) {
			b.title = InferTitle(text)
		}
	}
}

func (b *sessionBuilder) addAssistantMessage(ts time.Time, text string) {
	if !b.markActivity(ts) {
		return
	}
	b.assistantMessages++
	if text != "" {
		b.fragments = append(b.fragments, digest.Fragment("Assistant", text, b.opts.MessageMaxChars))
	}
}

// addToolCall records an in-day tool invocation: a deduplicated summary
// line plus any file paths harvested from its arguments and result.
func (b *sessionBuilder) addToolCall(ts time.Time, tool string, args, result any) {
	if !b.markActivity(ts) {
		return
	}

	if line := SummarizeToolCall(tool, args); line != "" {
		if _, ok := b.toolCallSeen[line]; !ok {
			b.toolCallSeen[line] = struct{}{}
			b.toolCalls = append(b.toolCalls, line)
		}
	}

	for _, p := range HarvestFilePaths(args) {
		b.addFile(p)
	}
	for _, p := range HarvestFilePaths(result) {
		b.addFile(p)
	}
}

func (b *sessionBuilder) addFile(path string) {
	if path == "" {
		return
	}
	if _, ok := b.fileSeen[path]; ok {
		return
	}
	b.fileSeen[path] = struct{}{}
	b.files = append(b.files, path)
}

// addUsage merges one token-usage report and marks it as activity when
// timestamped in-day.
func (b *sessionBuilder) addUsage(ts time.Time, u model.TokenUsage) {
	if !ts.IsZero() && !b.markActivity(ts) {
		return
	}
	b.usage = model.SumTokens(b.usage, u)
}

// finish assembles the immutable Session, or reports false when no
// activity fell inside the requested day.
func (b *sessionBuilder) finish() (model.Session, bool) {
	if len(b.activity) == 0 {
		return model.Session{}, false
	}

	id := b.id
	if id == "" {
		id = b.fallbackID
	}

	projectName := ""
	if b.projectPath != "" {
		projectName = filepath.Base(b.projectPath)
	}

	var cost float64
	if len(b.models) > 0 {
		cost = config.EstimateCost(b.models[0], b.usage)
	}

	return model.Session{
		ID:                    id,
		Tool:                  b.tool,
		ProjectPath:           b.projectPath,
		ProjectName:           projectName,
		Title:                 b.title,
		StartedAt:             b.day.Clip(b.minSeen),
		EndedAt:               b.day.Clip(b.maxSeen),
		DurationMs:            ActiveDuration(b.activity).Milliseconds(),
		MessageCount:          b.userMessages + b.assistantMessages,
		UserMessageCount:      b.userMessages,
		AssistantMessageCount: b.assistantMessages,
		Summary:               b.summary,
		Tokens:                b.usage,
		CostUSD:               cost,
		Models:                b.models,
		FilesTouched:          b.files,
		ConversationDigest:    digest.Build(b.fragments, b.opts.DigestMaxChars),
		ToolCallSummaries:     b.toolCalls,
	}, true
}
