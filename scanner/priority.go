package scanner

import (
	"strings"

	"github.com/morler/repolens/scanner/models"
)

// Rank derives the selection priority purely from a file name.
func (s *Scanner) Rank(fileName string) models.PriorityRank {
	if _, ok := s.highPriority[fileName]; ok {
		return models.RankHigh
	}
	if _, ok := s.mediumPriority[fileName]; ok {
		return models.RankMedium
	}
	if s.isSourceFile(fileName) {
		return models.RankSource
	}
	return models.RankOther
}

func (s *Scanner) isSourceFile(fileName string) bool {
	for _, ext := range s.options.SourceExtensions {
		if strings.HasSuffix(fileName, ext) {
			return true
		}
	}
	return false
}

// extensionOf returns the lowercased suffix from the last dot, including the dot.
// Leading dots do not start an extension, so ".bashrc" has none.
func extensionOf(fileName string) string {
	trimmed := strings.TrimLeft(fileName, ".")
	i := strings.LastIndex(trimmed, ".")
	if i < 0 {
		return models.NoExtension
	}
	return strings.ToLower(trimmed[i:])
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
