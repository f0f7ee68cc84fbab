package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/term"
)

// NoTheme disables syntax highlighting.
const NoTheme = "none"

// ShouldHighlight reports whether output to f can carry terminal colours.
func ShouldHighlight(f *os.File, theme string) bool {
	if theme == "" || theme == NoTheme {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// RenderMarkdown writes a markdown document, highlighted with the given chroma style
// when highlight is set and verbatim otherwise.
func RenderMarkdown(w io.Writer, content string, theme string, highlight bool) error {
	if !highlight {
		_, err := fmt.Fprintln(w, content)
		return err
	}

	if err := quick.Highlight(w, content+"\n", "markdown", "terminal256", theme); err != nil {
		return fmt.Errorf("error rendering markdown: %w", err)
	}
	return nil
}
