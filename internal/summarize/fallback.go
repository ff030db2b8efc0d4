package summarize

import (
	"fmt"
	"strings"

	"github.com/scottatron-wd/devday/internal/digest"
	"github.com/scottatron-wd/devday/internal/model"
)

const (
	userPrefix      = "[User]: "
	assistantPrefix = "[Assistant]: "

	maxFallbackExcerpt = 200
	maxFallbackFiles   = 5
	maxFallbackTools   = 4
)

// FallbackSummary assembles a deterministic summary without network
// access: the session title, the first user prompt, the last assistant
// reply (or tool names when there is none), and touched files.
func FallbackSummary(s *model.Session) string {
	var parts []string

	if s.Title != "" {
		parts = append(parts, s.Title+".")
	} else if s.Summary != "" {
		parts = append(parts, s.Summary+".")
	}

	firstUser, lastAssistant := digestEndpoints(s.ConversationDigest)
	if firstUser != "" && firstUser != s.Title {
		parts = append(parts, "Started with: "+excerpt(firstUser))
	}
	if lastAssistant != "" {
		parts = append(parts, "Ended with: "+excerpt(lastAssistant))
	} else if len(s.ToolCallSummaries) > 0 {
		tools := s.ToolCallSummaries
		if len(tools) > maxFallbackTools {
			tools = tools[:maxFallbackTools]
		}
		parts = append(parts, "Tool activity: "+strings.Join(tools, "; ")+".")
	}

	if len(s.FilesTouched) > 0 {
		files := s.FilesTouched
		suffix := ""
		if len(files) > maxFallbackFiles {
			suffix = fmt.Sprintf(" and %d more", len(files)-maxFallbackFiles)
			files = files[:maxFallbackFiles]
		}
		parts = append(parts, "Files: "+strings.Join(files, ", ")+suffix+".")
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%d-message %s session.", s.MessageCount, s.Tool)
	}
	return strings.Join(parts, " ")
}

// digestEndpoints pulls the first user fragment and the last assistant
// fragment out of a built digest.
func digestEndpoints(d string) (firstUser, lastAssistant string) {
	for _, frag := range strings.Split(d, digest.FragmentSeparator) {
		if firstUser == "" && strings.HasPrefix(frag, userPrefix) {
			firstUser = strings.TrimPrefix(frag, userPrefix)
		}
		if strings.HasPrefix(frag, assistantPrefix) {
			lastAssistant = strings.TrimPrefix(frag, assistantPrefix)
		}
	}
	return firstUser, lastAssistant
}

func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxFallbackExcerpt {
		text = string(runes[:maxFallbackExcerpt]) + "..."
	}
	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "...") {
		text += "."
	}
	return text
}
