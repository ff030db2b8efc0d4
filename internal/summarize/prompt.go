package summarize

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/scottatron-wd/devday/internal/model"
)

// defaultInstructions is the embedded guidance block used when no
// instruction file is configured or the configured one is unreadable.
const defaultInstructions = `You summarize one AI coding session for a developer's daily recap.

Write 2-4 sentences of plain prose. Lead with what was accomplished, then
notable decisions or obstacles. Mention concrete artifacts (files, commits,
PRs) when the transcript names them. Do not invent work that is not in the
transcript, do not praise, do not address the reader.`

// LoadInstructions reads the instruction file fresh on every invocation so
// edits take effect without a restart. Unset or unreadable paths fall back
// to the embedded default.
func LoadInstructions(path string) string {
	if path == "" {
		return defaultInstructions
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-configured path
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return defaultInstructions
	}
	return string(data)
}

var (
	commitHashRe = regexp.MustCompile(`\b[0-9a-f]{7,40}\b`)
	issueRefRe   = regexp.MustCompile(`#\d{1,6}\b`)
	uuidRe       = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)
)

const maxEvidenceSignals = 8

// ExtractEvidenceSignals harvests concrete identifiers (commit-like
// hashes, PR/issue refs, UUIDs) from transcript text, so summaries can be
// grounded in verifiable facts. Order of first appearance, deduplicated.
func ExtractEvidenceSignals(texts ...string) []string {
	var signals []string
	seen := make(map[string]struct{})
	add := func(matches []string) {
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			signals = append(signals, m)
		}
	}

	for _, text := range texts {
		add(uuidRe.FindAllString(text, -1))
		add(issueRefRe.FindAllString(text, -1))
		for _, m := range commitHashRe.FindAllString(text, -1) {
			// Pure digit runs match the hex pattern but are usually
			// line numbers or counts.
			if strings.IndexFunc(m, func(r rune) bool { return r >= 'a' && r <= 'f' }) < 0 {
				continue
			}
			add([]string{m})
		}
	}

	if len(signals) > maxEvidenceSignals {
		signals = signals[:maxEvidenceSignals]
	}
	return signals
}

// sessionContext renders the structured header that precedes the digest in
// every prompt.
func sessionContext(s *model.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tool: %s\n", s.Tool)
	if s.ProjectName != "" {
		fmt.Fprintf(&b, "Project: %s (%s)\n", s.ProjectName, s.ProjectPath)
	}
	if s.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", s.Title)
	}
	if !s.StartedAt.IsZero() {
		fmt.Fprintf(&b, "Time: %s to %s\n",
			s.StartedAt.Format(time.Kitchen), s.EndedAt.Format(time.Kitchen))
	}
	if len(s.FilesTouched) > 0 {
		fmt.Fprintf(&b, "Files touched: %s\n", strings.Join(s.FilesTouched, ", "))
	}
	if len(s.ToolCallSummaries) > 0 {
		fmt.Fprintf(&b, "Tool calls: %s\n", strings.Join(s.ToolCallSummaries, "; "))
	}
	if signals := ExtractEvidenceSignals(append([]string{s.ConversationDigest}, s.ToolCallSummaries...)...); len(signals) > 0 {
		fmt.Fprintf(&b, "Identifiers seen: %s\n", strings.Join(signals, ", "))
	}

	return b.String()
}

// chunkPrompt frames one digest chunk for independent summarization.
func chunkPrompt(s *model.Session, chunk string, i, n int) string {
	return fmt.Sprintf("%s\nThis is chunk %d of %d of the conversation transcript. Summarize what happens in this part.\n\nTranscript chunk:\n%s",
		sessionContext(s), i, n, chunk)
}

// synthesisPrompt asks for one cohesive narrative over the ordered chunk
// summaries.
func synthesisPrompt(s *model.Session, chunkSummaries []string) string {
	var b strings.Builder
	b.WriteString(sessionContext(s))
	b.WriteString("\nThe conversation was summarized in sequential parts. Combine the part summaries below into one cohesive session summary.\n")
	for i, cs := range chunkSummaries {
		fmt.Fprintf(&b, "\nPart %d:\n%s\n", i+1, cs)
	}
	return b.String()
}

// wholePrompt frames the complete digest for a single-call summary.
func wholePrompt(s *model.Session, digestText string) string {
	return fmt.Sprintf("%s\nTranscript:\n%s", sessionContext(s), digestText)
}
