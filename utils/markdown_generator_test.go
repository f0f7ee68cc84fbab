package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_Plain(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, RenderMarkdown(&out, "# Title\n\nBody", "dracula", false))

	assert.Equal(t, "# Title\n\nBody\n", out.String())
}

func TestRenderMarkdown_Highlighted(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, RenderMarkdown(&out, "# Title", "dracula", true))

	assert.Contains(t, out.String(), "Title")
	assert.Contains(t, out.String(), "\x1b[")
}

func TestShouldHighlight(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "out.md"))
	require.NoError(t, err)
	defer file.Close()

	assert.False(t, ShouldHighlight(file, "dracula"))
	assert.False(t, ShouldHighlight(file, NoTheme))
	assert.False(t, ShouldHighlight(os.Stdout, ""))
}
