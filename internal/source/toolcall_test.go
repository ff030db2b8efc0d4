package source

import (
	"reflect"
	"strings"
	"testing"
)

func TestSummarizeToolCall(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args any
		want string
	}{
		{
			name: "path argument",
			tool: "Edit",
			args: map[string]any{"file_path": "/home/u/proj/main.go"},
			want: "Edit /home/u/proj/main.go",
		},
		{
			name: "command argument",
			tool: "Bash",
			args: map[string]any{"command": "go   test ./..."},
			want: "bash: go test ./...",
		},
		{
			name: "pattern argument",
			tool: "Grep",
			args: map[string]any{"pattern": "func main"},
			want: "Grep: func main",
		},
		{
			name: "bare tool name",
			tool: "WebSearch",
			args: map[string]any{"url": "https://example.com"},
			want: "WebSearch",
		},
		{
			name: "empty tool",
			tool: "",
			args: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarizeToolCall(tt.tool, tt.args); got != tt.want {
				t.Errorf("SummarizeToolCall = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarizeToolCall_TruncatesLongCommand(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := SummarizeToolCall("Bash", map[string]any{"command": long})
	if want := "bash: " + strings.Repeat("x", maxCommandChars); got != want {
		t.Errorf("len = %d, want command capped at %d", len(got), maxCommandChars)
	}
}

func TestHarvestFilePaths(t *testing.T) {
	args := map[string]any{
		"file_path": "/a/b.go",
		"edits": []any{
			map[string]any{"path": "./c.go"},
			map[string]any{"path": "~/d.go"},
		},
		"url":     "https://example.com/x",
		"pattern": "/not/under/a/path/key",
		"cwd":     "/work/dir",
	}

	got := HarvestFilePaths(args)
	want := []string{"/work/dir", "./c.go", "~/d.go", "/a/b.go"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HarvestFilePaths = %v, want %v", got, want)
	}
}

func TestHarvestFilePaths_NonMap(t *testing.T) {
	if got := HarvestFilePaths("just a string"); got != nil {
		t.Errorf("expected nil for a bare string, got %v", got)
	}
	if got := HarvestFilePaths(nil); got != nil {
		t.Errorf("expected nil for nil, got %v", got)
	}
}

func TestLooksLikePath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/abs/path.go", true},
		{"rel/path.go", true},
		{"./rel.go", true},
		{"~/home.go", true},
		{"C:\\Users\\x", true},
		{"https://example.com", false},
		{"", false},
		{"plainword", false},
	}
	for _, tt := range tests {
		if got := looksLikePath(tt.in); got != tt.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
