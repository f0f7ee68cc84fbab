package scanner

import (
	"path/filepath"

	"github.com/morler/repolens/utils"
	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// ignoreMatcher combines base-name glob patterns with optional .gitignore rules.
type ignoreMatcher struct {
	patterns  []string
	gitignore *ignore.GitIgnore
}

func (s *Scanner) newIgnoreMatcher(rootPath string) *ignoreMatcher {
	matcher := &ignoreMatcher{patterns: s.options.IgnorePatterns}
	if !s.options.RespectGitignore {
		return matcher
	}

	rules, err := utils.GetGitignoreRules(rootPath)
	if err != nil {
		s.logger.Warn(".gitignore could not be loaded, continuing without it", zap.Error(err))
		return matcher
	}
	matcher.gitignore = rules
	return matcher
}

// ignored reports whether an entry is excluded. name is the base name and
// relativePath is slash-separated from the root.
func (m *ignoreMatcher) ignored(relativePath, name string, isDir bool) bool {
	for _, pattern := range m.patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return utils.IsGitIgnored(m.gitignore, relativePath, isDir)
}
