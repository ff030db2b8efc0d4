package recap

import (
	"os/exec"
	"strings"

	"github.com/scottatron-wd/devday/internal/source"
)

// Commit is one git commit made during the recap day.
type Commit struct {
	Hash    string
	Subject string
	Author  string
}

// CommitLookup resolves the day's commits for a project path. A nil
// lookup disables git enrichment; GitCommits is the real implementation.
type CommitLookup func(projectPath string) []Commit

// NewGitLookup returns a CommitLookup that shells out to git for the
// given day window.
func NewGitLookup(day source.DayWindow) CommitLookup {
	return func(projectPath string) []Commit {
		return GitCommits(projectPath, day)
	}
}

// GitCommits lists the repository's commits inside the day window. A
// missing directory, a non-repo, or a git failure all yield nil; commit
// history is enrichment, never a hard requirement.
func GitCommits(repoDir string, day source.DayWindow) []Commit {
	if repoDir == "" || !isGitRepo(repoDir) {
		return nil
	}

	// Unit separator between fields keeps subjects with any punctuation
	// parseable.
	out, err := gitCommand(repoDir, "log",
		"--no-merges",
		"--since="+day.Start.Format("2006-01-02T15:04:05"),
		"--until="+day.End.Format("2006-01-02T15:04:05"),
		"--format=%h\x1f%s\x1f%an",
	)
	if err != nil {
		return nil
	}

	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Split(line, "\x1f")
		if len(fields) != 3 || fields[0] == "" {
			continue
		}
		commits = append(commits, Commit{
			Hash:    fields[0],
			Subject: fields[1],
			Author:  fields[2],
		})
	}
	return commits
}

func isGitRepo(dir string) bool {
	_, err := gitCommand(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

func gitCommand(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
