package scanner

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/morler/repolens/scanner/models"
	"go.uber.org/zap"
)

type candidate struct {
	relativePath string
	fullPath     string
	rank         models.PriorityRank
}

// walk visits the whole tree once, with no depth limit. Each directory's files are
// discovered in name order before its subdirectories, and ignored directories are
// pruned before they are entered. Symlinked directories are counted but not followed.
func (s *Scanner) walk(ctx context.Context, absRoot string, matcher *ignoreMatcher) ([]candidate, models.Statistics, error) {
	var (
		candidates []candidate
		stats      models.Statistics
	)

	var visit func(dir, relDir string) error
	visit = func(dir, relDir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Debug("skipping unreadable directory", zap.String("dir", dir), zap.Error(err))
			return nil
		}

		var subdirs []string
		for _, entry := range entries {
			name := entry.Name()
			relPath := path.Join(relDir, name)
			fullPath := filepath.Join(dir, name)

			isDir, followable := classify(entry, fullPath)
			if matcher.ignored(relPath, name, isDir) {
				continue
			}

			if isDir {
				stats.TotalDirs++
				if followable {
					subdirs = append(subdirs, name)
				}
				continue
			}

			var size int64
			if info, err := os.Stat(fullPath); err == nil {
				size = info.Size()
			}
			stats.AddFile(extensionOf(name), size)

			candidates = append(candidates, candidate{
				relativePath: relPath,
				fullPath:     fullPath,
				rank:         s.Rank(name),
			})
		}

		for _, name := range subdirs {
			if err := visit(filepath.Join(dir, name), path.Join(relDir, name)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(absRoot, ""); err != nil {
		return nil, models.Statistics{}, err
	}
	return candidates, stats, nil
}

// classify reports whether an entry is a directory and whether the walk may enter it.
func classify(entry fs.DirEntry, fullPath string) (isDir bool, followable bool) {
	if entry.IsDir() {
		return true, true
	}
	if entry.Type()&fs.ModeSymlink != 0 {
		if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
			return true, false
		}
	}
	return false, false
}
