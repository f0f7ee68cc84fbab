package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// GetGitignoreRules compiles the .gitignore at the project root.
// If the file does not exist, it returns nil and no error.
func GetGitignoreRules(rootDir string) (*ignore.GitIgnore, error) {
	gitignorePath := filepath.Join(rootDir, ".gitignore")

	lines, err := readGitignore(gitignorePath)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	if len(lines) == 0 {
		return nil, nil
	}

	return ignore.CompileIgnoreLines(lines...), nil
}

// readGitignore reads the .gitignore file and returns its non-comment lines.
func readGitignore(gitignorePath string) ([]string, error) {
	file, err := os.Open(gitignorePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var patterns []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}

// IsGitIgnored checks a slash-separated relative path against compiled rules.
// Directories are matched with a trailing slash so that "dir/" rules apply.
func IsGitIgnored(rules *ignore.GitIgnore, relativePath string, isDir bool) bool {
	if rules == nil {
		return false
	}
	if isDir {
		return rules.MatchesPath(relativePath) || rules.MatchesPath(relativePath+"/")
	}
	return rules.MatchesPath(relativePath)
}

// ValidateGlobPatterns rejects malformed base-name patterns up front.
func ValidateGlobPatterns(patterns []string) error {
	for _, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
	}
	return nil
}
