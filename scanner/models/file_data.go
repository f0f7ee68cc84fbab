package models

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// NoExtension is the histogram key used for files without an extension.
const NoExtension = "no_extension"

// PriorityRank orders candidate files for content inclusion. Higher is preferred.
type PriorityRank int

const (
	RankOther PriorityRank = iota
	RankSource
	RankMedium
	RankHigh
)

func (r PriorityRank) String() string {
	switch r {
	case RankHigh:
		return "high"
	case RankMedium:
		return "medium"
	case RankSource:
		return "source"
	default:
		return "other"
	}
}

// FileData holds the path and decoded content of a selected file
type FileData struct {
	RelativePath string
	Content      string
	Size         int64
	Rank         PriorityRank
}

// SkippedFile records a candidate that was passed over during selection.
type SkippedFile struct {
	RelativePath string
	Reason       string
}

// ExtensionCount is one histogram bucket.
type ExtensionCount struct {
	Extension string
	Count     int
}

// Statistics aggregates every non-ignored file and directory under the root.
type Statistics struct {
	TotalFiles int
	TotalDirs  int
	// FileTypes keeps buckets in the order extensions were first encountered.
	FileTypes []ExtensionCount
	TotalSize int64
}

// AddFile counts one file of the given extension and size.
func (s *Statistics) AddFile(extension string, size int64) {
	s.TotalFiles++
	s.TotalSize += size
	for i := range s.FileTypes {
		if s.FileTypes[i].Extension == extension {
			s.FileTypes[i].Count++
			return
		}
	}
	s.FileTypes = append(s.FileTypes, ExtensionCount{Extension: extension, Count: 1})
}

// Count returns the number of files seen with the given extension.
func (s *Statistics) Count(extension string) int {
	for _, ft := range s.FileTypes {
		if ft.Extension == extension {
			return ft.Count
		}
	}
	return 0
}

func (s *Statistics) SizeMiB() float64 {
	return float64(s.TotalSize) / 1024 / 1024
}

// ProjectSnapshot is the immutable result of one scan.
type ProjectSnapshot struct {
	RootPath string
	RootName string
	Tree     string
	// KeyFiles is ordered by selection.
	KeyFiles []FileData
	Stats    Statistics
	Skipped  []SkippedFile
}

// Paths returns the selected relative paths in selection order.
func (s *ProjectSnapshot) Paths() []string {
	paths := make([]string, 0, len(s.KeyFiles))
	for _, f := range s.KeyFiles {
		paths = append(paths, f.RelativePath)
	}
	return paths
}

// Fingerprint digests the selection and statistics. Two scans of an unchanged tree
// produce the same value.
func (s *ProjectSnapshot) Fingerprint() string {
	h := xxh3.New()
	for _, f := range s.KeyFiles {
		_, _ = h.WriteString(f.RelativePath)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(f.Content)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.WriteString(fmt.Sprintf("%d/%d/%d", s.Stats.TotalFiles, s.Stats.TotalDirs, s.Stats.TotalSize))
	for _, ft := range s.Stats.FileTypes {
		_, _ = h.WriteString(fmt.Sprintf("|%s=%d", ft.Extension, ft.Count))
	}
	_, _ = h.WriteString(s.Tree)
	return fmt.Sprintf("%016x", h.Sum64())
}
