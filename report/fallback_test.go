package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/morler/repolens/scanner/models"
	"github.com/stretchr/testify/assert"
)

func TestDetectTechStack(t *testing.T) {
	var stats models.Statistics
	stats.AddFile(".tsx", 1)
	stats.AddFile(".py", 1)
	stats.AddFile(".md", 1)

	assert.Equal(t, []string{"Python", "TypeScript"}, DetectTechStack(stats))
	assert.Empty(t, DetectTechStack(models.Statistics{}))
}

func TestFallback(t *testing.T) {
	snapshot := sampleSnapshot()

	fallback := Fallback(snapshot)

	assert.Contains(t, fallback, "- Total files: 2")
	assert.Contains(t, fallback, "- Total directories: 1")
	assert.Contains(t, fallback, "Python")
	assert.Contains(t, fallback, "README.md, src/main.py")
	assert.Contains(t, fallback, snapshot.Tree)
}

func TestFallback_UnknownStack(t *testing.T) {
	var stats models.Statistics
	stats.AddFile(".txt", 10)

	fallback := Fallback(&models.ProjectSnapshot{Tree: "demo/", Stats: stats})

	assert.Contains(t, fallback, undetectedTechnology)
	assert.NotContains(t, fallback, "Code Outline")
}

func TestFallback_ListsAtMostTenFiles(t *testing.T) {
	snapshot := &models.ProjectSnapshot{Tree: "demo/"}
	for i := 0; i < 15; i++ {
		snapshot.KeyFiles = append(snapshot.KeyFiles, models.FileData{RelativePath: fmt.Sprintf("f%02d.txt", i)})
	}

	fallback := Fallback(snapshot)

	assert.Contains(t, fallback, "f09.txt")
	assert.NotContains(t, fallback, "f10.txt")
}

func TestFallback_CodeOutline(t *testing.T) {
	snapshot := &models.ProjectSnapshot{
		Tree: "demo/",
		KeyFiles: []models.FileData{
			{RelativePath: "main.go", Content: "package main\n\nfunc main() {}\n"},
		},
	}

	fallback := Fallback(snapshot)

	assert.Contains(t, fallback, "## 🧩 Code Outline")
	assert.True(t, strings.Contains(fallback, "### main.go\n- function: main\n"))
}
