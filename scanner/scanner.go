package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/morler/repolens/scanner/contracts"
	"github.com/morler/repolens/scanner/models"
	"go.uber.org/zap"
)

// Scanner walks a project tree and builds a ProjectSnapshot.
type Scanner struct {
	options        models.ScanOptions
	logger         *zap.Logger
	highPriority   map[string]struct{}
	mediumPriority map[string]struct{}
}

// NewScanner initializes a new Scanner. A nil logger discards diagnostics.
func NewScanner(options models.ScanOptions, logger *zap.Logger) contracts.IScanner {
	return newScanner(options, logger)
}

func newScanner(options models.ScanOptions, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		options:        options,
		logger:         logger.Named("scanner"),
		highPriority:   toSet(options.HighPriorityFiles),
		mediumPriority: toSet(options.MediumPriorityFiles),
	}
}

// Scan produces a snapshot of rootPath. Only a missing or non-directory root is an error;
// unreadable subtrees and files are skipped.
func (s *Scanner) Scan(ctx context.Context, rootPath string) (*models.ProjectSnapshot, error) {
	absRoot, err := resolveRoot(rootPath)
	if err != nil {
		return nil, err
	}

	matcher := s.newIgnoreMatcher(absRoot)

	tree := s.renderTree(absRoot, matcher)

	candidates, stats, err := s.walk(ctx, absRoot, matcher)
	if err != nil {
		return nil, err
	}

	keyFiles, skipped, err := s.selectKeyFiles(ctx, candidates)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scan complete",
		zap.String("root", absRoot),
		zap.Int("total_files", stats.TotalFiles),
		zap.Int("total_dirs", stats.TotalDirs),
		zap.Int("key_files", len(keyFiles)),
		zap.Int("skipped", len(skipped)))

	return &models.ProjectSnapshot{
		RootPath: absRoot,
		RootName: rootName(absRoot),
		Tree:     tree,
		KeyFiles: keyFiles,
		Stats:    stats,
		Skipped:  skipped,
	}, nil
}

// RenderTree renders the depth-limited directory tree of rootPath.
func (s *Scanner) RenderTree(rootPath string) (string, error) {
	absRoot, err := resolveRoot(rootPath)
	if err != nil {
		return "", err
	}
	return s.renderTree(absRoot, s.newIgnoreMatcher(absRoot)), nil
}

// resolveRoot makes rootPath absolute and confirms it is an existing directory.
func resolveRoot(rootPath string) (string, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return "", &RootPathError{Path: rootPath, Err: err}
	}

	info, err := os.Stat(absRoot)
	if errors.Is(err, os.ErrNotExist) {
		return "", &RootPathError{Path: absRoot, Err: ErrPathNotFound}
	} else if err != nil {
		return "", &RootPathError{Path: absRoot, Err: fmt.Errorf("%w: %v", ErrPathNotFound, err)}
	}
	if !info.IsDir() {
		return "", &RootPathError{Path: absRoot, Err: ErrNotDirectory}
	}
	return absRoot, nil
}

func rootName(absRoot string) string {
	name := filepath.Base(absRoot)
	if name == string(filepath.Separator) || name == "." {
		return absRoot
	}
	return name
}

// selectKeyFiles takes candidates in rank order until MaxFiles are included.
// Oversized or unreadable candidates are recorded and their slot goes to the next one.
func (s *Scanner) selectKeyFiles(ctx context.Context, candidates []candidate) ([]models.FileData, []models.SkippedFile, error) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].rank > candidates[j].rank
	})

	keyFiles := make([]models.FileData, 0, min(len(candidates), s.options.MaxFiles))
	var skipped []models.SkippedFile

	skip := func(c candidate, reason string, err error) {
		skipped = append(skipped, models.SkippedFile{RelativePath: c.relativePath, Reason: reason})
		if err != nil {
			s.logger.Warn("failed to read file", zap.String("path", c.relativePath), zap.Error(err))
			return
		}
		s.logger.Debug("skipping file", zap.String("path", c.relativePath), zap.String("reason", reason))
	}

	for _, c := range candidates {
		if len(keyFiles) >= s.options.MaxFiles {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		info, err := os.Stat(c.fullPath)
		if err != nil {
			skip(c, "stat failed", err)
			continue
		}
		if !info.Mode().IsRegular() {
			skip(c, "not a regular file", nil)
			continue
		}
		if info.Size() > s.options.MaxFileSize {
			skip(c, fmt.Sprintf("larger than %d bytes", s.options.MaxFileSize), nil)
			continue
		}

		content, size, err := readText(c.fullPath, s.options.MaxFileSize)
		if errors.Is(err, errOversized) {
			skip(c, fmt.Sprintf("larger than %d bytes", s.options.MaxFileSize), nil)
			continue
		} else if err != nil {
			skip(c, "read failed", err)
			continue
		}

		keyFiles = append(keyFiles, models.FileData{
			RelativePath: c.relativePath,
			Content:      content,
			Size:         size,
			Rank:         c.rank,
		})
	}

	return keyFiles, skipped, nil
}
