// Package config holds devday configuration, the pricing table, and the
// digest/summarization option plumbing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all devday configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Summarizer SummarizerConfig `toml:"summarizer"`
	Digest     DigestConfig     `toml:"digest"`
	Sources    SourcesConfig    `toml:"sources"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	VaultDir string `toml:"vault_dir,omitempty"` // where daily notes are written
}

// SummarizerConfig holds settings for the external summarization calls.
type SummarizerConfig struct {
	APIKey           string `toml:"api_key,omitempty"`
	Model            string `toml:"model,omitempty"`
	BaseURL          string `toml:"base_url,omitempty"`
	InstructionsFile string `toml:"instructions_file,omitempty"`
	Disabled         bool   `toml:"disabled,omitempty"`
}

// DigestConfig holds transcript digest size settings. Zero values mean
// "use the built-in default"; explicit env overrides win, see Options.
type DigestConfig struct {
	MessageMaxChars int `toml:"message_max_chars,omitempty"`
	DigestMaxChars  int `toml:"digest_max_chars,omitempty"`
	ChunkChars      int `toml:"chunk_chars,omitempty"`
}

// SourcesConfig allows overriding where each assistant keeps its history.
type SourcesConfig struct {
	ClaudeDir string `toml:"claude_dir,omitempty"`
	CodexDir  string `toml:"codex_dir,omitempty"`
	CursorDir string `toml:"cursor_dir,omitempty"`
	GeminiDir string `toml:"gemini_dir,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		General: GeneralConfig{
			VaultDir: filepath.Join(home, "devday"),
		},
		Summarizer: SummarizerConfig{
			Model: "claude-haiku-4-5",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "devday")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "devday")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// SummarizerAPIKey returns the API key from env var or config, in that order.
func SummarizerAPIKey(cfg Config) string {
	if key := os.Getenv("DEVDAY_API_KEY"); key != "" {
		return key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key
	}
	return cfg.Summarizer.APIKey
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
