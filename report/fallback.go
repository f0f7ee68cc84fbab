package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/morler/repolens/scanner/models"
	"github.com/morler/repolens/scanner/outline"
)

const (
	maxListedFiles       = 10
	maxOutlineSymbols    = 15
	undetectedTechnology = "Automatic detection failed"
)

// techSignals maps extensions to a technology guess, in report order.
var techSignals = []struct {
	name       string
	extensions []string
}{
	{"Python", []string{".py"}},
	{"JavaScript/React", []string{".js", ".jsx"}},
	{"TypeScript", []string{".ts", ".tsx"}},
	{"Java", []string{".java"}},
	{"Go", []string{".go"}},
	{"Rust", []string{".rs"}},
	{"Ruby", []string{".rb"}},
	{"PHP", []string{".php"}},
	{"C#", []string{".cs"}},
	{"Kotlin", []string{".kt"}},
	{"Swift", []string{".swift"}},
	{"Dart/Flutter", []string{".dart"}},
	{"Vue", []string{".vue"}},
	{"Svelte", []string{".svelte"}},
}

// DetectTechStack guesses technologies from the extension histogram.
func DetectTechStack(stats models.Statistics) []string {
	var stack []string
	for _, signal := range techSignals {
		for _, ext := range signal.extensions {
			if stats.Count(ext) > 0 {
				stack = append(stack, signal.name)
				break
			}
		}
	}
	return stack
}

// Fallback synthesizes a basic report locally, without any remote service.
func Fallback(snapshot *models.ProjectSnapshot) string {
	stats := snapshot.Stats

	techStack := undetectedTechnology
	if detected := DetectTechStack(stats); len(detected) > 0 {
		techStack = strings.Join(detected, ", ")
	}

	paths := snapshot.Paths()
	if len(paths) > maxListedFiles {
		paths = paths[:maxListedFiles]
	}

	var b strings.Builder
	b.WriteString("# 🚀 Basic Project Analysis\n\n")

	b.WriteString("## 📋 Project Overview\n")
	fmt.Fprintf(&b, "- Total files: %d\n", stats.TotalFiles)
	fmt.Fprintf(&b, "- Total directories: %d\n", stats.TotalDirs)
	fmt.Fprintf(&b, "- Project size: %.2fMiB\n\n", stats.SizeMiB())

	b.WriteString("## 🛠 Detected Tech Stack\n")
	b.WriteString(techStack + "\n\n")

	b.WriteString("## 📁 Project Structure\n```\n")
	b.WriteString(snapshot.Tree)
	b.WriteString("\n```\n\n")

	b.WriteString("## 📄 Key Files\n")
	b.WriteString(strings.Join(paths, ", ") + "\n\n")

	if codeOutline := formatOutline(snapshot.KeyFiles); codeOutline != "" {
		b.WriteString("## 🧩 Code Outline\n")
		b.WriteString(codeOutline + "\n")
	}

	b.WriteString("⚠️ A detailed analysis requires a working connection to the AI provider.\n")

	return b.String()
}

func formatOutline(files []models.FileData) string {
	var b strings.Builder
	listed := 0
	for _, f := range files {
		if listed == maxListedFiles {
			break
		}
		if !outline.Supported(f.RelativePath) {
			continue
		}
		symbols, err := outline.Extract(context.Background(), f.RelativePath, []byte(f.Content))
		if err != nil || len(symbols) == 0 {
			continue
		}
		listed++

		fmt.Fprintf(&b, "### %s\n", f.RelativePath)
		for i, symbol := range symbols {
			if i == maxOutlineSymbols {
				fmt.Fprintf(&b, "- ... %d more\n", len(symbols)-maxOutlineSymbols)
				break
			}
			fmt.Fprintf(&b, "- %s\n", symbol)
		}
		b.WriteString("\n")
	}
	return b.String()
}
