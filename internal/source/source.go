// Package source extracts normalized sessions from the local history of
// AI coding assistants. Each assistant stores history in its own format;
// one extractor per format reduces it to model.Session values for a
// requested calendar day.
package source

import (
	"github.com/scottatron-wd/devday/internal/digest"
	"github.com/scottatron-wd/devday/internal/model"
)

// Extractor is the contract every source implements.
//
// Sessions is read-only over the source data and deterministic given
// immutable input. A missing root path yields (nil, nil), not an error;
// malformed individual records are skipped. The error return is reserved
// for catastrophic failures outside any single unit (none of the shipped
// extractors currently produce one, but the contract allows it).
type Extractor interface {
	Name() string
	Available() bool
	Sessions(date string) ([]model.Session, error)
}

// Registry holds extractors in registration order. Recap assembly collects
// sessions source by source in this order; no cross-source ordering beyond
// that is guaranteed.
type Registry struct {
	extractors []Extractor
}

// NewRegistry builds a registry over the given extractors.
func NewRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// All returns the registered extractors in order.
func (r *Registry) All() []Extractor {
	return r.extractors
}

// DefaultRegistry wires up the four shipped extractors with shared digest
// options. Empty dir overrides fall back to each tool's standard location.
type DirOverrides struct {
	ClaudeDir string
	CodexDir  string
	CursorDir string
	GeminiDir string
}

// NewDefaultRegistry returns the standard extractor set in its stable
// registration order.
func NewDefaultRegistry(dirs DirOverrides, opts digest.Options) *Registry {
	return NewRegistry(
		NewClaudeExtractor(dirs.ClaudeDir, opts),
		NewCodexExtractor(dirs.CodexDir, opts),
		NewCursorExtractor(dirs.CursorDir, opts),
		NewGeminiExtractor(dirs.GeminiDir, opts),
	)
}
