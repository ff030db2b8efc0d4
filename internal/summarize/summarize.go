package summarize

import (
	"context"
	"strings"

	"github.com/scottatron-wd/devday/internal/digest"
	"github.com/scottatron-wd/devday/internal/logger"
	"github.com/scottatron-wd/devday/internal/model"
)

// Summarizer runs the per-session summarization pipeline. A nil client
// means no external summarizer is configured and every session gets the
// deterministic fallback.
type Summarizer struct {
	client           *Client
	instructionsPath string
	opts             digest.Options
}

// New builds a Summarizer. client may be nil.
func New(client *Client, instructionsPath string, opts digest.Options) *Summarizer {
	return &Summarizer{
		client:           client,
		instructionsPath: instructionsPath,
		opts:             opts,
	}
}

// Summarize produces a summary for one session. It never fails: every
// rung of the ladder that errors falls through to the next, ending at the
// deterministic fallback. A failed call never aborts sibling sessions.
func (sm *Summarizer) Summarize(ctx context.Context, s *model.Session) string {
	if sm.client == nil || s.ConversationDigest == "" {
		return FallbackSummary(s)
	}

	instructions := LoadInstructions(sm.instructionsPath)
	d := s.ConversationDigest

	chunks := digest.SplitChunks(d, sm.opts.ChunkChars, sm.opts.MaxChunks)
	if len(chunks) <= 1 {
		if text, ok := sm.client.Complete(ctx, instructions, wholePrompt(s, d)); ok {
			return NormalizeOutput(text)
		}
		return FallbackSummary(s)
	}

	chunkSummaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		text, ok := sm.client.Complete(ctx, instructions, chunkPrompt(s, chunk, i+1, len(chunks)))
		if !ok {
			logger.Debug("summarize: chunk %d/%d failed for session %s", i+1, len(chunks), s.ID)
			continue
		}
		chunkSummaries = append(chunkSummaries, NormalizeOutput(text))
	}

	// Every chunk failed: one whole-digest attempt, then the fallback.
	if len(chunkSummaries) == 0 {
		if text, ok := sm.client.Complete(ctx, instructions, wholePrompt(s, d)); ok {
			return NormalizeOutput(text)
		}
		return FallbackSummary(s)
	}

	if text, ok := sm.client.Complete(ctx, instructions, synthesisPrompt(s, chunkSummaries)); ok {
		return NormalizeOutput(text)
	}
	// Synthesis failed: the ordered chunk summaries still tell the story.
	return strings.Join(chunkSummaries, "\n\n")
}

// NormalizeOutput trims trailing whitespace per line and outer blank
// lines without touching the content itself.
func NormalizeOutput(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
