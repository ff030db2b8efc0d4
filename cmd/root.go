// Package cmd implements the devday CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/scottatron-wd/devday/internal/cli"
	"github.com/scottatron-wd/devday/internal/config"
	"github.com/scottatron-wd/devday/internal/digest"
	"github.com/scottatron-wd/devday/internal/logger"
	"github.com/scottatron-wd/devday/internal/model"
	"github.com/scottatron-wd/devday/internal/recap"
	"github.com/scottatron-wd/devday/internal/source"
	"github.com/scottatron-wd/devday/internal/summarize"
	"github.com/scottatron-wd/devday/internal/tui"

	"github.com/spf13/cobra"
)

var (
	flagDate   string
	flagVault  string
	flagSource string
	flagNoLLM  bool
	flagQuiet  bool
	flagStdout bool
)

var rootCmd = &cobra.Command{
	Use:   "devday",
	Short: "Daily recap of your AI coding sessions",
	Long: "Collect the day's sessions from Claude Code, Codex, Cursor, and Gemini,\n" +
		"summarize them, and write a daily note into your vault.",
	RunE: runRecap,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = logger.Close() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDate, "date", "d", "", "Day to recap (YYYY-MM-DD, default today)")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "Only this source (claude-code, codex, cursor, gemini)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")

	rootCmd.Flags().StringVar(&flagVault, "vault", "", "Vault directory for the daily note (overrides config)")
	rootCmd.Flags().BoolVar(&flagNoLLM, "no-llm", false, "Skip external summarization, use deterministic summaries")
	rootCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print the note to stdout instead of writing it")
}

// resolveDate defaults to today in local time.
func resolveDate() string {
	if flagDate == "" {
		return time.Now().Format("2006-01-02")
	}
	return flagDate
}

// digestOptions builds the size caps once at the program boundary:
// defaults, then config file values, then env overrides.
func digestOptions(cfg config.Config) digest.Options {
	opts := digest.DefaultOptions()
	if cfg.Digest.MessageMaxChars > 0 {
		opts.MessageMaxChars = cfg.Digest.MessageMaxChars
	}
	if cfg.Digest.DigestMaxChars > 0 {
		opts.DigestMaxChars = cfg.Digest.DigestMaxChars
	}
	if cfg.Digest.ChunkChars > 0 {
		opts.ChunkChars = cfg.Digest.ChunkChars
	}
	return digest.OptionsFromEnv(opts)
}

func newRegistry(cfg config.Config, opts digest.Options) *source.Registry {
	return source.NewDefaultRegistry(source.DirOverrides{
		ClaudeDir: cfg.Sources.ClaudeDir,
		CodexDir:  cfg.Sources.CodexDir,
		CursorDir: cfg.Sources.CursorDir,
		GeminiDir: cfg.Sources.GeminiDir,
	}, opts)
}

// collectSessions scans the registered sources in order for the given day.
func collectSessions(ctx context.Context, reg *source.Registry, date string, r *tui.Reporter) []model.Session {
	var all []model.Session
	for _, e := range reg.All() {
		if ctx.Err() != nil {
			return all
		}
		if flagSource != "" && e.Name() != flagSource {
			continue
		}
		if !e.Available() {
			continue
		}

		r.Step("scanning %s", e.Name())
		sessions, err := e.Sessions(date)
		if err != nil {
			logger.Warn("source %s failed: %v", e.Name(), err)
			r.StepDone("%s: failed", e.Name())
			continue
		}
		r.StepDone("%s: %d session%s", e.Name(), len(sessions), plural(len(sessions)))
		all = append(all, sessions...)
	}
	return all
}

func newSummarizer(cfg config.Config, opts digest.Options) *summarize.Summarizer {
	var client *summarize.Client
	if !flagNoLLM && !cfg.Summarizer.Disabled {
		var copts []summarize.ClientOption
		if cfg.Summarizer.BaseURL != "" {
			copts = append(copts, summarize.WithBaseURL(cfg.Summarizer.BaseURL))
		}
		client = summarize.NewClient(config.SummarizerAPIKey(cfg), cfg.Summarizer.Model, copts...)
	}
	return summarize.New(client, cfg.Summarizer.InstructionsFile, opts)
}

func runRecap(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	date := resolveDate()
	day, err := source.ParseDay(date)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", date, err)
	}

	opts := digestOptions(cfg)
	reg := newRegistry(cfg, opts)
	sm := newSummarizer(cfg, opts)

	var recaps []recap.SessionRecap
	work := func(ctx context.Context, r *tui.Reporter) error {
		sessions := collectSessions(ctx, reg, date, r)
		for i := range sessions {
			if err := ctx.Err(); err != nil {
				return err
			}
			label := sessions[i].Title
			if label == "" {
				label = sessions[i].ID
			}
			r.Step("summarizing %s", cli.TruncateCell(label, 50))
			recaps = append(recaps, recap.SessionRecap{
				Session:   sessions[i],
				Narrative: sm.Summarize(ctx, &sessions[i]),
			})
		}
		if len(sessions) > 0 {
			r.StepDone("summarized %d session%s", len(sessions), plural(len(sessions)))
		}
		return nil
	}

	if useProgressUI() {
		err = tui.Run(work)
	} else {
		err = tui.RunPlain(work)
	}
	if err != nil {
		return err
	}

	rec := recap.Build(date, recaps, recap.NewGitLookup(day))

	if flagStdout {
		fmt.Println(rec.Markdown())
		return nil
	}

	vault := flagVault
	if vault == "" {
		vault = cfg.General.VaultDir
	}
	notePath, err := rec.WriteNote(vault)
	if err != nil {
		return err
	}

	printRecap(rec)
	fmt.Println(cli.Muted("  Note written to " + notePath))
	fmt.Println()
	return nil
}

// printRecap renders the terminal report.
func printRecap(r *recap.Recap) {
	fmt.Println()
	fmt.Println(cli.RenderTitle("DEV DAY  " + r.Date))
	fmt.Println()

	if r.SessionCount == 0 {
		fmt.Println(cli.Muted("  No sessions found for this day."))
		fmt.Println()
		return
	}

	fmt.Printf("  %s\n\n", cli.Muted(fmt.Sprintf("%d session%s · %s tokens · %s · %s",
		r.SessionCount, plural(r.SessionCount),
		cli.FormatTokens(r.Tokens.Total),
		cli.FormatCost(r.CostUSD),
		cli.FormatDuration(r.DurationMs/1000))))

	for _, p := range r.Projects {
		rows := make([][]string, 0, len(p.Sessions))
		for _, sr := range p.Sessions {
			s := sr.Session
			start := ""
			if !s.StartedAt.IsZero() {
				start = s.StartedAt.Format("15:04")
			}
			rows = append(rows, []string{
				start,
				string(s.Tool),
				cli.TruncateCell(s.Title, 40),
				cli.FormatDuration(s.DurationMs / 1000),
				cli.FormatTokens(s.Tokens.Total),
				cli.FormatCost(s.CostUSD),
			})
		}

		fmt.Println(cli.RenderTable(cli.Table{
			Title:   p.Name,
			Headers: []string{"Start", "Tool", "Title", "Time", "Tokens", "Cost"},
			Rows:    rows,
		}))

		for _, c := range p.Commits {
			fmt.Printf("    %s %s\n", cli.OK(c.Hash), c.Subject)
		}
		if len(p.Commits) > 0 {
			fmt.Println()
		}
	}
}

// useProgressUI reports whether the spinner display should run: an
// interactive stderr, not quieted, and not piping the note to stdout.
func useProgressUI() bool {
	if flagQuiet || flagStdout {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
