// Package storage writes pipeline outputs and downloaded images to disk.
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
	// Root is prepended to relative paths. Empty means the working directory.
	Root string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

func (s *Storage) path(p string) string {
	if s.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, p)
}

// SaveFile writes content to filePath, creating parent directories.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	full := s.path(filePath)
	if dir := filepath.Dir(full); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(full, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(s.path(filePath))
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(fn string) bool {
	_, err := os.Stat(s.path(fn))
	return err == nil
}

// GetFileStats returns metadata about a file using os.Stat.
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(s.path(filePath))
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

// ImageDir is the directory images are saved under, one folder per recipe.
const ImageDir = "pics"

var unsafeName = regexp.MustCompile(`[^\p{L}\p{N}_\- ]+`)

// SafeName turns a recipe title into a directory name.
func SafeName(title string) string {
	name := strings.TrimSpace(unsafeName.ReplaceAllString(title, ""))
	if name == "" {
		return "untitled"
	}
	return name
}

// ImagePath is the relative path of the n-th (1-based) image of a recipe.
func ImagePath(title string, n int) string {
	return filepath.Join(ImageDir, SafeName(title), fmt.Sprintf("image_%d.jpg", n))
}

// SaveImage stores image bytes at ImagePath and returns that path.
func (s *Storage) SaveImage(title string, n int, data []byte) (string, error) {
	p := ImagePath(title, n)
	if err := s.SaveFile(p, data); err != nil {
		return "", err
	}
	return p, nil
}
