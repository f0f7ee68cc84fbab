package report

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/morler/repolens/scanner/models"
	"github.com/stretchr/testify/assert"
)

func sampleSnapshot() *models.ProjectSnapshot {
	var stats models.Statistics
	stats.AddFile(".md", 512)
	stats.AddFile(".py", 1024)
	stats.TotalDirs = 1

	return &models.ProjectSnapshot{
		RootPath: "/work/demo",
		RootName: "demo",
		Tree:     "demo/\n├── README.md\n└── src\n    └── main.py",
		KeyFiles: []models.FileData{
			{RelativePath: "README.md", Content: "# Demo project", Size: 14, Rank: models.RankHigh},
			{RelativePath: "src/main.py", Content: "print('hello')", Size: 14, Rank: models.RankMedium},
		},
		Stats: stats,
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		limit    int
		expected string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly the limit", "hello", 5, "hello"},
		{"longer than limit", "hello world", 5, "hello..."},
		{"counts characters, not bytes", "héllo wörld", 7, "héllo w..."},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.content, tt.limit))
		})
	}
}

func TestTruncate_LengthBound(t *testing.T) {
	content := strings.Repeat("abcdé", 1000)
	for _, limit := range []int{1, 10, 1999, 2000, 4999, 5000} {
		truncated := Truncate(content, limit)
		assert.LessOrEqual(t, utf8.RuneCountInString(truncated), limit+len(TruncationMarker))
		if utf8.RuneCountInString(content) > limit {
			assert.True(t, strings.HasSuffix(truncated, TruncationMarker))
		}
	}
}

func TestFormatFileTypes_FirstTenInEncounterOrder(t *testing.T) {
	var stats models.Statistics
	for i := 0; i < 12; i++ {
		stats.AddFile(fmt.Sprintf(".e%d", i), 1)
	}
	stats.AddFile(".e0", 1)

	formatted := FormatFileTypes(stats, 10)

	assert.True(t, strings.HasPrefix(formatted, ".e0(2), .e1(1), "))
	assert.Contains(t, formatted, ".e9(1)")
	assert.NotContains(t, formatted, ".e10")
	assert.NotContains(t, formatted, ".e11")
}

func TestBuildPrompt(t *testing.T) {
	snapshot := sampleSnapshot()

	prompt := BuildPrompt(snapshot, DefaultOptions())

	assert.Contains(t, prompt, "- Total files: 2")
	assert.Contains(t, prompt, "- Total directories: 1")
	assert.Contains(t, prompt, "- Main file types: .md(1), .py(1)")
	assert.Contains(t, prompt, "- Project size: 0.00MiB")
	assert.Contains(t, prompt, snapshot.Tree)
	assert.Contains(t, prompt, "### README.md\n```\n# Demo project\n```")
	assert.Contains(t, prompt, "### src/main.py\n```\nprint('hello')\n```")
	assert.Contains(t, prompt, "**in English**")

	for _, section := range []string{"Project Overview", "Tech Stack", "Architecture", "Setup and Running", "Learning Roadmap", "Beginner", "Intermediate", "Advanced", "Improvement Suggestions"} {
		assert.Contains(t, prompt, section)
	}

	// Deterministic for the same input.
	assert.Equal(t, prompt, BuildPrompt(snapshot, DefaultOptions()))
}

func TestBuildPrompt_TruncatesContent(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.KeyFiles[0].Content = strings.Repeat("x", 50)

	prompt := BuildPrompt(snapshot, Options{TruncateChars: 10, Language: "French"})

	assert.Contains(t, prompt, "### README.md\n```\n"+strings.Repeat("x", 10)+TruncationMarker+"\n```")
	assert.NotContains(t, prompt, strings.Repeat("x", 11))
	assert.Contains(t, prompt, "**in French**")
}

func TestBuildPrompt_NoKeyFiles(t *testing.T) {
	snapshot := &models.ProjectSnapshot{RootName: "empty", Tree: "empty/"}

	prompt := BuildPrompt(snapshot, DefaultOptions())

	assert.Contains(t, prompt, "- Total files: 0")
	assert.Contains(t, prompt, "No key files were found.")
}
