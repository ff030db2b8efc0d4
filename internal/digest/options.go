package digest

import (
	"os"
	"strconv"
)

// Built-in defaults for digest sizing.
const (
	DefaultMessageMaxChars = 500
	DefaultDigestMaxChars  = 8000
	DefaultChunkChars      = 7500
	DefaultMaxChunks       = 12
)

// Environment variables recognized by OptionsFromEnv. Each accepts a
// non-negative integer string; 0 disables the respective cap.
const (
	EnvDigestMaxChars  = "DEVDAY_DIGEST_MAX_CHARS"
	EnvMessageMaxChars = "DEVDAY_MESSAGE_MAX_CHARS"
	EnvChunkChars      = "DEVDAY_SUMMARY_CHUNK_CHARS"
)

// Options carries the digest size caps. It is constructed once at the
// program boundary and threaded into extraction and summarization rather
// than read from the environment inside leaf functions.
type Options struct {
	MessageMaxChars int // per-message cap, 0 disables
	DigestMaxChars  int // assembled digest cap, 0 disables
	ChunkChars      int // summarization chunk threshold, 0 disables chunking
	MaxChunks       int // hard cap on chunk count
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		MessageMaxChars: DefaultMessageMaxChars,
		DigestMaxChars:  DefaultDigestMaxChars,
		ChunkChars:      DefaultChunkChars,
		MaxChunks:       DefaultMaxChunks,
	}
}

// OptionsFromEnv applies environment overrides on top of base. Absent or
// invalid values leave the base value untouched.
func OptionsFromEnv(base Options) Options {
	base.DigestMaxChars = envOverride(EnvDigestMaxChars, base.DigestMaxChars)
	base.MessageMaxChars = envOverride(EnvMessageMaxChars, base.MessageMaxChars)
	base.ChunkChars = envOverride(EnvChunkChars, base.ChunkChars)
	return base
}

func envOverride(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
