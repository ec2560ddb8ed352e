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

// Options selects how Resolve looks for a file.
type Options struct {
	// Path is an explicit file or directory. It takes precedence over Dirs.
	Path string
	// Dirs are searched in order when Path is empty. Missing directories are
	// skipped.
	Dirs []string
	// Extension filters candidates by file extension. Empty means any file.
	Extension string
	// Match overrides the matcher built from Extension.
	Match Matcher
	// MaxDepth bounds the search below each entry of Dirs. Nil means no
	// limit. A directory given as Path is always scanned at depth 0.
	MaxDepth *int
}

// Depth returns a MaxDepth value for Options.
func Depth(n int) *int {
	return &n
}

// AmbiguousError lists every file that matched when exactly one was expected.
type AmbiguousError struct {
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return "found multiple files:\n" + strings.Join(e.Matches, "\n")
}

// Is reports ErrAmbiguous as the sentinel for this error.
func (e *AmbiguousError) Is(target error) bool {
	return target == ErrAmbiguous
}

// Resolve returns the single file described by opts.
func Resolve(ctx context.Context, opts Options) (string, error) {
	match := opts.Match
	if match == nil {
		if opts.Extension != "" {
			match = ExtensionMatcher(opts.Extension)
		} else {
			match = MatchAll
		}
	}

	maxDepth := Unbounded
	if opts.MaxDepth != nil {
		maxDepth = *opts.MaxDepth
	}

	var files []string

	switch {
	case opts.Path != "":
		path, err := filepath.Abs(opts.Path)
		if err != nil {
			return "", fmt.Errorf("failed to make %s absolute: %w", opts.Path, err)
		}

		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: filepath '%s' doesn't exist", ErrNotFound, path)
		} else if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if info.Mode().IsRegular() {
			return path, nil
		}

		files, err = FindFilesAtSameLevel(ctx, path, match, 0)
		if err != nil {
			return "", err
		}
	case opts.Dirs != nil:
		for _, rel := range opts.Dirs {
			dir, err := filepath.Abs(rel)
			if err != nil {
				return "", fmt.Errorf("failed to make %s absolute: %w", rel, err)
			}

			if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
				slog.DebugContext(ctx, "skipping missing directory", slog.String("dir", dir))

				continue
			} else if err != nil {
				return "", fmt.Errorf("failed to stat %s: %w", dir, err)
			}

			files, err = FindFilesAtSameLevel(ctx, dir, match, maxDepth)
			if err != nil {
				return "", err
			}

			if len(files) > 0 {
				break
			}
		}
	default:
		return "", fmt.Errorf("%w: neither an explicit path nor alternative directories are set", ErrInvalidInput)
	}

	switch {
	case len(files) == 1:
		slog.InfoContext(ctx, "found file", slog.String("path", files[0]))

		return files[0], nil
	case len(files) > 1:
		return "", &AmbiguousError{Matches: files}
	case opts.Extension == "":
		return "", fmt.Errorf("%w: no files are found", ErrNotFound)
	default:
		return "", fmt.Errorf("%w: no file with extension *%s is found", ErrNotFound, opts.Extension)
	}
}
