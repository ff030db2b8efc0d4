// Package recap groups a day's sessions by project, enriches them with
// git commit history, and renders the daily note.
package recap

import (
	"sort"

	"github.com/scottatron-wd/devday/internal/model"
)

// SessionRecap pairs an extracted session with the narrative generated
// for the note. Session stays as the extractor produced it; in particular
// Session.Summary remains the source's own summary.
type SessionRecap struct {
	Session   model.Session
	Narrative string
}

// ProjectRecap is one project's slice of the day.
type ProjectRecap struct {
	Name     string
	Path     string
	Sessions []SessionRecap
	Commits  []Commit
}

// Recap is the assembled daily report.
type Recap struct {
	Date     string // YYYY-MM-DD
	Projects []ProjectRecap

	SessionCount int
	Tokens       model.TokenUsage
	CostUSD      float64
	DurationMs   int64
}

const unknownProject = "(no project)"

// Build groups sessions by project in first-seen order and computes the
// day totals. commits may be nil to skip git enrichment.
func Build(date string, sessions []SessionRecap, commits CommitLookup) *Recap {
	r := &Recap{Date: date}

	index := make(map[string]int)
	for _, sr := range sessions {
		s := sr.Session
		key := s.ProjectPath
		if key == "" {
			key = unknownProject
		}

		i, ok := index[key]
		if !ok {
			name := s.ProjectName
			if name == "" {
				name = unknownProject
			}
			i = len(r.Projects)
			index[key] = i
			r.Projects = append(r.Projects, ProjectRecap{Name: name, Path: s.ProjectPath})
		}
		r.Projects[i].Sessions = append(r.Projects[i].Sessions, sr)

		r.SessionCount++
		r.Tokens = model.SumTokens(r.Tokens, s.Tokens)
		r.CostUSD += s.CostUSD
		r.DurationMs += s.DurationMs
	}

	for i := range r.Projects {
		sessions := r.Projects[i].Sessions
		sort.SliceStable(sessions, func(a, b int) bool {
			return sessions[a].Session.StartedAt.Before(sessions[b].Session.StartedAt)
		})
		if commits != nil && r.Projects[i].Path != "" {
			r.Projects[i].Commits = commits(r.Projects[i].Path)
		}
	}

	return r
}
