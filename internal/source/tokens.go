package source

import "github.com/scottatron-wd/devday/internal/model"

// usageSearchDepth bounds how far ExtractUsage recurses into nested
// containers looking for token fields.
const usageSearchDepth = 3

// usageContainerKeys are the nested object keys worth descending into when
// a bucket's aliases don't match at the current level.
var usageContainerKeys = []string{
	"usage",
	"result",
	"metrics",
	"info",
	"payload",
	"tokens",
	"tokenUsage",
	"token_usage",
	"last_token_usage",
	"lastTokenUsage",
}

// usageAliases lists, per semantic bucket, the known key names across every
// supported source, in priority order. Adding a source with new labels
// means adding table rows here, not new control flow.
var usageAliases = struct {
	input      []string
	output     []string
	reasoning  []string
	cacheRead  []string
	cacheWrite []string
}{
	input: []string{
		"input_tokens", "inputTokens",
		"prompt_tokens", "promptTokens",
		"prompt_token_count", "promptTokenCount",
		"input",
	},
	output: []string{
		"output_tokens", "outputTokens",
		"completion_tokens", "completionTokens",
		"candidates_token_count", "candidatesTokenCount",
		"output",
	},
	reasoning: []string{
		"reasoning_output_tokens", "reasoningOutputTokens",
		"reasoning_tokens", "reasoningTokens",
		"thoughts_token_count", "thoughtsTokenCount",
		"thoughts",
	},
	cacheRead: []string{
		"cache_read_input_tokens", "cacheReadInputTokens",
		"cached_input_tokens", "cachedInputTokens",
		"cached_tokens", "cachedTokens",
		"cached_content_token_count", "cachedContentTokenCount",
		"cached",
	},
	cacheWrite: []string{
		"cache_creation_input_tokens", "cacheCreationInputTokens",
		"cache_write_tokens", "cacheWriteTokens",
	},
}

// ExtractUsage pulls a TokenUsage out of an arbitrarily shaped usage
// record. For each bucket it tries the alias keys at the current object,
// then descends into known container keys up to usageSearchDepth. First
// match per bucket wins; unmatched buckets stay 0.
func ExtractUsage(record map[string]any) model.TokenUsage {
	return model.NewTokenUsage(
		tokenField(record, usageAliases.input),
		tokenField(record, usageAliases.output),
		tokenField(record, usageAliases.reasoning),
		tokenField(record, usageAliases.cacheRead),
		tokenField(record, usageAliases.cacheWrite),
	)
}

func tokenField(record map[string]any, aliases []string) int64 {
	n, _ := findTokenField(record, aliases, usageSearchDepth)
	return n
}

// findTokenField matches on key presence, not value, so an explicit zero
// in an earlier container shadows counts in later ones.
func findTokenField(obj map[string]any, aliases []string, depth int) (int64, bool) {
	if obj == nil {
		return 0, false
	}

	for _, key := range aliases {
		if v, ok := obj[key]; ok {
			if n, ok := asInt64(v); ok {
				return n, true
			}
		}
	}

	if depth <= 0 {
		return 0, false
	}
	for _, key := range usageContainerKeys {
		nested, ok := obj[key].(map[string]any)
		if !ok {
			continue
		}
		if n, found := findTokenField(nested, aliases, depth-1); found {
			return n, true
		}
	}
	return 0, false
}

// asInt64 accepts the numeric shapes encoding/json produces.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return int64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
