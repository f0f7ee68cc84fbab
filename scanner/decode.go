package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var errOversized = errors.New("file exceeds size limit")

// readText reads at most limit bytes and decodes them permissively: a BOM selects
// UTF-16 when present, and invalid UTF-8 sequences become U+FFFD instead of failing.
func readText(path string, limit int64) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return "", 0, err
	}
	if int64(len(raw)) > limit {
		return "", 0, errOversized
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return "", 0, fmt.Errorf("failed to decode: %w", err)
	}
	return string(decoded), int64(len(raw)), nil
}
