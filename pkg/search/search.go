// Package search locates files in a directory tree by scanning it level by
// level and stopping at the shallowest level that contains a match.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Unbounded disables the depth limit of FindFilesAtSameLevel.
const Unbounded = -1

var (
	// ErrInvalidInput is returned when neither an explicit path nor fallback
	// directories are given.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when the explicit path is missing or no file
	// matches.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when more than one file matches.
	ErrAmbiguous = errors.New("ambiguous")
)

// Matcher reports whether a filename should be included in search results.
type Matcher func(name string) bool

// MatchAll accepts every filename.
func MatchAll(string) bool {
	return true
}

// ExtensionMatcher returns a case-insensitive matcher for the given file
// extension. The leading dot is optional.
func ExtensionMatcher(extension string) Matcher {
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}

	extension = strings.ToLower(extension)

	return func(name string) bool {
		return strings.HasSuffix(strings.ToLower(name), extension)
	}
}

// NameMatcher returns a matcher for an exact filename.
func NameMatcher(name string) Matcher {
	return func(n string) bool {
		return n == name
	}
}

// FindFilesAtSameLevel searches startDir for files accepted by match. If none
// are found, the immediate subdirectories are scanned together, then their
// subdirectories, and so on. The files of the first level with any match are
// returned and deeper levels are never read. A negative maxDepth means no
// limit; 0 scans startDir only.
func FindFilesAtSameLevel(ctx context.Context, startDir string, match Matcher, maxDepth int) ([]string, error) {
	var files []string

	dirs := []string{startDir}

	for level := 0; len(dirs) > 0; level++ {
		if maxDepth >= 0 && level > maxDepth {
			break
		}

		slog.DebugContext(ctx, "scanning level", slog.Int("level", level), slog.Int("dirs", len(dirs)))

		var next []string

		for _, dir := range dirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, fmt.Errorf("error reading directory %s: %w", dir, err)
			}

			for _, entry := range entries {
				path := filepath.Join(dir, entry.Name())

				if isDir(entry, path) {
					next = append(next, path)
				} else if match(entry.Name()) {
					files = append(files, path)
				}
			}
		}

		if len(files) > 0 {
			break
		}

		dirs = next
	}

	return files, nil
}

// isDir follows symlinks so that a link to a directory is descended into.
func isDir(entry fs.DirEntry, path string) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}
