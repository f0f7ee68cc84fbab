package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/morler/repolens/scanner/models"
)

const (
	// TruncationMarker follows content cut at the character cap.
	TruncationMarker = "..."
	// maxListedExtensions bounds the extension summary in prompts.
	maxListedExtensions = 10
)

// Options control prompt assembly.
type Options struct {
	TruncateChars int    `mapstructure:"truncate_chars"`
	Language      string `mapstructure:"language"`
}

func DefaultOptions() Options {
	return Options{
		TruncateChars: 2000,
		Language:      "English",
	}
}

// Truncate keeps at most limit characters of content, appending TruncationMarker when cut.
func Truncate(content string, limit int) string {
	if utf8.RuneCountInString(content) <= limit {
		return content
	}
	offset, count := 0, 0
	for offset = range content {
		if count == limit {
			break
		}
		count++
	}
	return content[:offset] + TruncationMarker
}

// FormatFileTypes renders the first extensions in encounter order as "ext(count)".
func FormatFileTypes(stats models.Statistics, limit int) string {
	parts := make([]string, 0, limit)
	for i, ft := range stats.FileTypes {
		if i == limit {
			break
		}
		parts = append(parts, fmt.Sprintf("%s(%d)", ft.Extension, ft.Count))
	}
	return strings.Join(parts, ", ")
}

// BuildPrompt assembles the analysis instruction for a snapshot. The output depends only
// on the snapshot and options.
func BuildPrompt(snapshot *models.ProjectSnapshot, options Options) string {
	stats := snapshot.Stats

	var b strings.Builder

	b.WriteString("Analyze the following project in depth and write a complete guide for developers.\n\n")

	b.WriteString("## 📊 Project Information\n")
	fmt.Fprintf(&b, "- Total files: %d\n", stats.TotalFiles)
	fmt.Fprintf(&b, "- Total directories: %d\n", stats.TotalDirs)
	fmt.Fprintf(&b, "- Main file types: %s\n", FormatFileTypes(stats, maxListedExtensions))
	fmt.Fprintf(&b, "- Project size: %.2fMiB\n\n", stats.SizeMiB())

	b.WriteString("## 📁 Project Structure\n```\n")
	b.WriteString(snapshot.Tree)
	b.WriteString("\n```\n\n")

	b.WriteString("## 📄 Key Files\n")
	b.WriteString(formatFilesContent(snapshot.KeyFiles, options.TruncateChars))

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "Based on the information above, write a detailed analysis report **in %s** using exactly this format:\n\n", options.Language)
	b.WriteString(reportTemplate)

	return b.String()
}

func formatFilesContent(files []models.FileData, truncateChars int) string {
	if len(files) == 0 {
		return "No key files were found.\n"
	}

	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "\n### %s\n```\n%s\n```\n", f.RelativePath, Truncate(f.Content, truncateChars))
	}
	return b.String()
}

const reportTemplate = `# 🚀 Project Analysis Report

## 📋 Project Overview
- What this project does, stated clearly
- Main features and purpose
- Target users or use cases

## 🛠 Tech Stack
- **Programming languages**:
- **Frameworks/libraries**:
- **Databases**:
- **Deployment/infrastructure**:
- **Development tools**:

## 🏗 Architecture
- Overall system structure
- Main components and their responsibilities
- Data flow and processing
- Design or architectural patterns

## ⚙️ Setup and Running
1. **Prerequisites**
2. **Installation steps**
3. **How to run**
4. **Environment configuration**

## 📚 Learning Roadmap
List the technologies needed to fully understand and contribute to this project, **ordered by difficulty**:

### 🔰 Beginner (essential foundations)
-

### 🔵 Intermediate (core technologies)
-

### 🔴 Advanced (in-depth topics)
-

## 💡 Improvement Suggestions
- Code quality improvements
- Performance optimization points
- Security considerations
- Scalability improvements

Make every section as specific and practical as possible.`
