// Package storage places export files under an output directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Storage struct {
	Dir string
}

// FileStats holds metadata about a saved file.
type FileStats struct {
	Path      string
	SizeBytes int64
	ModTime   time.Time
}

// New returns a Storage rooted at dir.
func New(dir string) *Storage {
	return &Storage{Dir: dir}
}

// SaveFile writes content to name under the output directory, creating the
// directory as needed, and returns the written path.
func (s *Storage) SaveFile(name string, content []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return path, nil
}

func (s *Storage) HasFile(name string) bool {
	_, err := os.Stat(filepath.Join(s.Dir, filepath.Base(name)))
	return err == nil
}

// GetFileStats returns metadata about a saved file.
func (s *Storage) GetFileStats(name string) (*FileStats, error) {
	path := filepath.Join(s.Dir, filepath.Base(name))
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats: %w", err)
	}
	return &FileStats{Path: path, SizeBytes: info.Size(), ModTime: info.ModTime()}, nil
}

var unsafeName = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// maxNameLen bounds the title part of an export name.
const maxNameLen = 60

// ExportName builds a file name from a page title, the time of the export
// and an extension, e.g. "quarterly-sales_20260102-150405.csv". An empty
// title falls back to "tables".
func ExportName(title string, at time.Time, ext string) string {
	base := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if r := []rune(base); len(r) > maxNameLen {
		base = strings.TrimRight(string(r[:maxNameLen]), "-")
	}
	if base == "" {
		base = "tables"
	}
	return fmt.Sprintf("%s_%s.%s", base, at.Format("20060102-150405"), strings.TrimPrefix(ext, "."))
}
