package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_ConsoleLevel(t *testing.T) {
	var console bytes.Buffer
	logger, closeLogger := NewLogger(LoggerOptions{Console: &console})

	logger.Debug("hidden detail")
	logger.Warn("visible warning")
	closeLogger()

	assert.NotContains(t, console.String(), "hidden detail")
	assert.Contains(t, console.String(), "visible warning")
}

func TestNewLogger_Verbose(t *testing.T) {
	var console bytes.Buffer
	logger, closeLogger := NewLogger(LoggerOptions{Verbose: true, Console: &console})

	logger.Debug("scan detail")
	closeLogger()

	assert.Contains(t, console.String(), "scan detail")
}

func TestNewLogger_LogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "repolens.log")
	var console bytes.Buffer
	logger, closeLogger := NewLogger(LoggerOptions{LogFile: logFile, Console: &console})

	logger.Info("report written", zap.String("path", "report.md"))
	closeLogger()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "report written", entry["msg"])
	assert.Equal(t, "report.md", entry["path"])
	assert.NotEmpty(t, entry["run_id"])

	// Info is below the console threshold.
	assert.Empty(t, console.String())
}
