package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportHeader is the two comment lines that precede a saved report.
func ReportHeader(generatedAt time.Time, analyzedPath string) string {
	return fmt.Sprintf("<!-- Generated at: %s -->\n<!-- Analyzed path: %s -->\n\n",
		generatedAt.Format("2006-01-02 15:04:05"), analyzedPath)
}

// WriteReportFile saves a report atomically: it is written to a temporary file in the
// target directory and renamed into place, so an interrupted run never leaves a partial file.
func WriteReportFile(outputPath, analyzedPath, report string, generatedAt time.Time) error {
	dir := filepath.Dir(outputPath)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	var b strings.Builder
	b.WriteString(ReportHeader(generatedAt, analyzedPath))
	b.WriteString(report)

	if _, err := tmp.WriteString(b.String()); err != nil {
		cleanup()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to flush report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
