package cmd

import (
	"fmt"

	"github.com/scottatron-wd/devday/internal/config"
	"github.com/scottatron-wd/devday/internal/digest"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Vault directory: %s\n", cfg.General.VaultDir)
	fmt.Println()

	fmt.Println("  [Summarizer]")
	if cfg.Summarizer.Disabled {
		fmt.Println("    Disabled: yes")
	} else {
		key := config.SummarizerAPIKey(cfg)
		if key != "" {
			fmt.Printf("    API key: %s\n", maskAPIKey(key))
		} else {
			fmt.Println("    API key: not configured (deterministic summaries only)")
		}
		fmt.Printf("    Model:   %s\n", cfg.Summarizer.Model)
		if cfg.Summarizer.BaseURL != "" {
			fmt.Printf("    Base URL: %s\n", cfg.Summarizer.BaseURL)
		}
		if cfg.Summarizer.InstructionsFile != "" {
			fmt.Printf("    Instructions: %s\n", cfg.Summarizer.InstructionsFile)
		}
	}
	fmt.Println()

	opts := digestOptions(cfg)
	fmt.Println("  [Digest]")
	fmt.Printf("    Per-message cap: %d chars\n", opts.MessageMaxChars)
	fmt.Printf("    Digest cap:      %d chars\n", opts.DigestMaxChars)
	fmt.Printf("    Chunk threshold: %d chars (max %d chunks)\n", opts.ChunkChars, opts.MaxChunks)
	fmt.Printf("    Env overrides:   %s, %s, %s\n",
		digest.EnvMessageMaxChars, digest.EnvDigestMaxChars, digest.EnvChunkChars)
	fmt.Println()

	fmt.Println("  [Sources]")
	printSourceDir := func(name, dir string) {
		if dir == "" {
			dir = "(default)"
		}
		fmt.Printf("    %-12s %s\n", name+":", dir)
	}
	printSourceDir("claude-code", cfg.Sources.ClaudeDir)
	printSourceDir("codex", cfg.Sources.CodexDir)
	printSourceDir("cursor", cfg.Sources.CursorDir)
	printSourceDir("gemini", cfg.Sources.GeminiDir)
	fmt.Println()

	fmt.Println("  Run `devday setup` to reconfigure.")
	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
