package source

import (
	"sort"
	"strings"
)

// maxCommandChars bounds the command excerpt in a tool-call summary line.
const maxCommandChars = 80

// pathHarvestDepth bounds the recursive scan for path-like values inside
// tool-call arguments and results.
const pathHarvestDepth = 4

var commandKeys = []string{"command", "cmd", "script"}
var patternKeys = []string{"pattern", "query", "regex", "glob"}

// SummarizeToolCall renders one tool invocation as a short human-readable
// line. Preference order: a discovered file path argument, a command
// string, a search pattern, then the bare tool name.
func SummarizeToolCall(tool string, args any) string {
	if tool == "" {
		return ""
	}

	if paths := HarvestFilePaths(args); len(paths) > 0 {
		return tool + " " + paths[0]
	}

	if m, ok := args.(map[string]any); ok {
		for _, key := range commandKeys {
			if cmd, ok := m[key].(string); ok && cmd != "" {
				cmd = strings.Join(strings.Fields(cmd), " ")
				if len(cmd) > maxCommandChars {
					cmd = cmd[:maxCommandChars]
				}
				return "bash: " + cmd
			}
		}
		for _, key := range patternKeys {
			if pat, ok := m[key].(string); ok && pat != "" {
				return tool + ": " + pat
			}
		}
	}

	return tool
}

// HarvestFilePaths recursively scans a tool-call argument or result value
// for strings that sit under a path-like key and look like filesystem
// paths. Order of discovery is preserved.
func HarvestFilePaths(v any) []string {
	var paths []string
	harvestPaths(v, "", pathHarvestDepth, &paths)
	return paths
}

func harvestPaths(v any, key string, depth int, out *[]string) {
	if depth < 0 {
		return
	}
	switch val := v.(type) {
	case string:
		if isPathKey(key) && looksLikePath(val) {
			*out = append(*out, val)
		}
	case map[string]any:
		// Sorted keys keep discovery order deterministic.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			harvestPaths(val[k], k, depth-1, out)
		}
	case []any:
		for _, nested := range val {
			harvestPaths(nested, key, depth-1, out)
		}
	}
}

// isPathKey matches argument names that conventionally carry paths.
func isPathKey(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "path") || strings.Contains(k, "file") || k == "cwd"
}

// looksLikePath accepts values with a separator or a relative/home prefix,
// rejecting URLs.
func looksLikePath(v string) bool {
	if v == "" || strings.Contains(v, "://") {
		return false
	}
	if strings.HasPrefix(v, "~") || strings.HasPrefix(v, "./") || strings.HasPrefix(v, "../") {
		return true
	}
	return strings.ContainsAny(v, "/\\")
}
