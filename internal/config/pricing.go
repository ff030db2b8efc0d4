package config

import (
	"strings"

	"github.com/scottatron-wd/devday/internal/model"
)

// ModelPricing holds per-million-token USD rates for a model.
// Only input and output tokens are priced: reasoning tokens are billed by
// every source inside whichever bucket it reports them in, and cache
// reads/writes are tracked but not separately charged.
type ModelPricing struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// DefaultPricing maps model base names to their rates.
var DefaultPricing = map[string]ModelPricing{
	"claude-opus-4-1":   {InputPerMTok: 15.00, OutputPerMTok: 75.00},
	"claude-opus-4":     {InputPerMTok: 15.00, OutputPerMTok: 75.00},
	"claude-sonnet-4-5": {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-sonnet-4":   {InputPerMTok: 3.00, OutputPerMTok: 15.00},
	"claude-haiku-4-5":  {InputPerMTok: 1.00, OutputPerMTok: 5.00},
	"claude-haiku-3-5":  {InputPerMTok: 0.80, OutputPerMTok: 4.00},
	"gpt-4o":            {InputPerMTok: 2.50, OutputPerMTok: 10.00},
	"gpt-4o-mini":       {InputPerMTok: 0.15, OutputPerMTok: 0.60},
	"gpt-4.1":           {InputPerMTok: 2.00, OutputPerMTok: 8.00},
	"gpt-5":             {InputPerMTok: 1.25, OutputPerMTok: 10.00},
	"gpt-5-mini":        {InputPerMTok: 0.25, OutputPerMTok: 2.00},
	"o3":                {InputPerMTok: 2.00, OutputPerMTok: 8.00},
	"gemini-2.5-pro":    {InputPerMTok: 1.25, OutputPerMTok: 10.00},
	"gemini-2.5-flash":  {InputPerMTok: 0.30, OutputPerMTok: 2.50},
}

// FallbackPricing applies when a model identifier is unrecognized.
var FallbackPricing = ModelPricing{InputPerMTok: 3.00, OutputPerMTok: 15.00}

// NormalizeModelName strips date suffixes from model identifiers.
// e.g., "claude-sonnet-4-5-20250929" -> "claude-sonnet-4-5"
func NormalizeModelName(raw string) string {
	if _, ok := DefaultPricing[raw]; ok {
		return raw
	}

	parts := strings.Split(raw, "-")
	if len(parts) >= 2 {
		last := parts[len(parts)-1]
		if isAllDigits(last) && len(last) >= 8 {
			candidate := strings.Join(parts[:len(parts)-1], "-")
			if _, ok := DefaultPricing[candidate]; ok {
				return candidate
			}
		}
	}

	return raw
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// LookupPricing returns the rates for a model, normalizing the name first.
// Unknown models get FallbackPricing; the second return reports whether the
// model was recognized.
func LookupPricing(modelName string) (ModelPricing, bool) {
	p, ok := DefaultPricing[NormalizeModelName(modelName)]
	if !ok {
		return FallbackPricing, false
	}
	return p, true
}

// EstimateCost computes the estimated USD cost of a usage under the given
// model's rates. Pure function; unknown models fall back to FallbackPricing.
func EstimateCost(modelName string, usage model.TokenUsage) float64 {
	p, _ := LookupPricing(modelName)
	cost := float64(usage.Input) * p.InputPerMTok / 1_000_000
	cost += float64(usage.Output) * p.OutputPerMTok / 1_000_000
	return cost
}
