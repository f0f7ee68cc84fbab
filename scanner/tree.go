package scanner

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	branchConnector = "├── "
	lastConnector   = "└── "
	branchIndent    = "│   "
	lastIndent      = "    "
)

// renderTree lists entries alphabetically down to TreeDepth levels below the root.
// Ignored directories are never descended and unreadable ones render as empty.
// Symlinked directories are listed, and matched as directories, but not followed.
func (s *Scanner) renderTree(absRoot string, matcher *ignoreMatcher) string {
	lines := []string{rootName(absRoot) + "/"}

	var addToTree func(dir, relDir, prefix string, depth int)
	addToTree = func(dir, relDir, prefix string, depth int) {
		if depth > s.options.TreeDepth {
			return
		}

		// os.ReadDir returns entries sorted by name.
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Debug("omitting unreadable directory from tree", zap.String("dir", dir), zap.Error(err))
			return
		}

		type treeEntry struct {
			name       string
			followable bool
		}

		var visible []treeEntry
		for _, entry := range entries {
			name := entry.Name()
			isDir, followable := classify(entry, filepath.Join(dir, name))
			if !matcher.ignored(path.Join(relDir, name), name, isDir) {
				visible = append(visible, treeEntry{name: name, followable: followable})
			}
		}

		for i, entry := range visible {
			isLast := i == len(visible)-1

			connector, indent := branchConnector, branchIndent
			if isLast {
				connector, indent = lastConnector, lastIndent
			}
			lines = append(lines, prefix+connector+entry.name)

			if entry.followable {
				addToTree(filepath.Join(dir, entry.name), path.Join(relDir, entry.name), prefix+indent, depth+1)
			}
		}
	}

	addToTree(absRoot, "", "", 0)

	return strings.Join(lines, "\n")
}
