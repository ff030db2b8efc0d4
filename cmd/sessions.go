package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/scottatron-wd/devday/internal/cli"
	"github.com/scottatron-wd/devday/internal/config"
	"github.com/scottatron-wd/devday/internal/model"
	"github.com/scottatron-wd/devday/internal/tui"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List the day's sessions across all sources",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	date := resolveDate()
	opts := digestOptions(cfg)
	reg := newRegistry(cfg, opts)

	var sessions []model.Session
	err = tui.RunPlain(func(ctx context.Context, r *tui.Reporter) error {
		sessions = collectSessions(ctx, reg, date, r)
		return nil
	})
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("\n  No sessions found for " + date + ".")
		return nil
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SESSIONS  %s (%d)", date, len(sessions))))
	fmt.Println()

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		start := ""
		if !s.StartedAt.IsZero() {
			start = s.StartedAt.Format("15:04")
		}
		rows = append(rows, []string{
			start,
			string(s.Tool),
			cli.TruncateCell(s.ProjectName, 18),
			cli.TruncateCell(s.Title, 36),
			fmt.Sprintf("%d", s.MessageCount),
			cli.FormatDuration(s.DurationMs / 1000),
			cli.FormatTokens(s.Tokens.Total),
			cli.FormatCost(s.CostUSD),
		})
	}

	fmt.Println(cli.RenderTable(cli.Table{
		Headers: []string{"Start", "Tool", "Project", "Title", "Msgs", "Time", "Tokens", "Cost"},
		Rows:    rows,
	}))
	return nil
}
