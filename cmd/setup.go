package cmd

import (
	"fmt"

	"github.com/scottatron-wd/devday/internal/cli"
	"github.com/scottatron-wd/devday/internal/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()

	vaultDir := cfg.General.VaultDir
	apiKey := cfg.Summarizer.APIKey
	modelName := cfg.Summarizer.Model
	llmEnabled := !cfg.Summarizer.Disabled

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Vault directory").
				Description("Daily notes are written here as YYYY-MM-DD.md.").
				Value(&vaultDir),

			huh.NewConfirm().
				Title("Summarize sessions with an LLM?").
				Description("Without it, devday builds deterministic summaries offline.").
				Value(&llmEnabled),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Anthropic API key").
				Description("Leave empty to use ANTHROPIC_API_KEY from the environment.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),

			huh.NewSelect[string]().
				Title("Summarizer model").
				Options(
					huh.NewOption("claude-haiku-4-5 (fast, cheap)", "claude-haiku-4-5"),
					huh.NewOption("claude-sonnet-4-5 (better prose)", "claude-sonnet-4-5"),
				).
				Value(&modelName),
		).WithHideFunc(func() bool { return !llmEnabled }),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.General.VaultDir = vaultDir
	cfg.Summarizer.APIKey = apiKey
	cfg.Summarizer.Model = modelName
	cfg.Summarizer.Disabled = !llmEnabled

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.OK("  Saved to " + config.ConfigPath()))
	fmt.Println(cli.Muted("  Run `devday setup` anytime to reconfigure."))
	fmt.Println()
	return nil
}
