package recap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scottatron-wd/devday/internal/cli"
)

// Markdown renders the recap as the daily vault note.
func (r *Recap) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Dev Day — %s\n\n", r.Date)
	fmt.Fprintf(&b, "**%d session%s · %s tokens · %s · %s**\n",
		r.SessionCount, plural(r.SessionCount),
		cli.FormatTokens(r.Tokens.Total),
		cli.FormatCost(r.CostUSD),
		cli.FormatDuration(r.DurationMs/1000),
	)

	for _, p := range r.Projects {
		fmt.Fprintf(&b, "\n## %s\n", p.Name)
		if p.Path != "" {
			fmt.Fprintf(&b, "`%s`\n", p.Path)
		}

		if len(p.Commits) > 0 {
			b.WriteString("\n### Commits\n")
			for _, c := range p.Commits {
				fmt.Fprintf(&b, "- `%s` %s (%s)\n", c.Hash, c.Subject, c.Author)
			}
		}

		for _, sr := range p.Sessions {
			s := sr.Session
			title := s.Title
			if title == "" {
				title = string(s.Tool) + " session"
			}
			fmt.Fprintf(&b, "\n### %s %s\n", s.StartedAt.Format("15:04"), title)
			fmt.Fprintf(&b, "*%s · %s · %s tokens · %s*\n",
				s.Tool,
				cli.FormatDuration(s.DurationMs/1000),
				cli.FormatTokens(s.Tokens.Total),
				cli.FormatCost(s.CostUSD),
			)
			// Generated narrative first, the source's own summary as a
			// stand-in when no narrative was produced.
			narrative := sr.Narrative
			if narrative == "" {
				narrative = s.Summary
			}
			if narrative != "" {
				b.WriteString("\n" + narrative + "\n")
			}
			if len(s.FilesTouched) > 0 {
				b.WriteString("\nFiles:\n")
				for _, f := range s.FilesTouched {
					fmt.Fprintf(&b, "- `%s`\n", f)
				}
			}
		}
	}

	return b.String()
}

// WriteNote writes the recap note as <vaultDir>/YYYY-MM-DD.md, creating
// the vault directory if needed, and returns the note path.
func (r *Recap) WriteNote(vaultDir string) (string, error) {
	if err := os.MkdirAll(vaultDir, 0o755); err != nil {
		return "", fmt.Errorf("creating vault directory: %w", err)
	}

	path := filepath.Join(vaultDir, r.Date+".md")
	if err := os.WriteFile(path, []byte(r.Markdown()), 0o644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}
	return path, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
