package config

import (
	"math"
	"testing"

	"github.com/scottatron-wd/devday/internal/model"
)

func TestEstimateCost_KnownModel(t *testing.T) {
	usage := model.NewTokenUsage(1_000_000, 500_000, 0, 0, 0)
	got := EstimateCost("gpt-4o", usage)
	// $2.50 for 1M input + $5.00 for 0.5M output at $10/MTok.
	if math.Abs(got-7.5) > 1e-9 {
		t.Errorf("EstimateCost(gpt-4o) = %v, want 7.5", got)
	}
}

func TestEstimateCost_UnknownModelFallback(t *testing.T) {
	usage := model.NewTokenUsage(1_000_000, 1_000_000, 0, 0, 0)
	got := EstimateCost("totally-unknown-model", usage)
	// Fallback rates $3/$15 per million.
	if math.Abs(got-18.0) > 1e-9 {
		t.Errorf("EstimateCost(unknown) = %v, want 18.0", got)
	}
}

func TestEstimateCost_CacheAndReasoningNotPriced(t *testing.T) {
	base := model.NewTokenUsage(100_000, 100_000, 0, 0, 0)
	padded := model.NewTokenUsage(100_000, 100_000, 50_000, 900_000, 900_000)
	if EstimateCost("gpt-4o", base) != EstimateCost("gpt-4o", padded) {
		t.Error("reasoning/cache buckets must not change the estimate")
	}
}

func TestEstimateCost_ZeroUsage(t *testing.T) {
	if got := EstimateCost("gpt-4o", model.TokenUsage{}); got != 0 {
		t.Errorf("EstimateCost(zero) = %v, want 0", got)
	}
}

func TestNormalizeModelName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"claude-sonnet-4-5-20250929", "claude-sonnet-4-5"},
		{"claude-sonnet-4-5", "claude-sonnet-4-5"},
		{"gpt-4o", "gpt-4o"},
		{"made-up-model-20251101", "made-up-model-20251101"}, // no table entry for the prefix
		{"claude-opus-4-1-20250805", "claude-opus-4-1"},
	}
	for _, tt := range tests {
		if got := NormalizeModelName(tt.in); got != tt.want {
			t.Errorf("NormalizeModelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLookupPricing_Fallback(t *testing.T) {
	p, ok := LookupPricing("nope")
	if ok {
		t.Error("LookupPricing(nope) reported recognized")
	}
	if p != FallbackPricing {
		t.Errorf("LookupPricing(nope) = %+v, want fallback", p)
	}
}
