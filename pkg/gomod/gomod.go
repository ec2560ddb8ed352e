// Package gomod locates a go.mod file with a level-wise search and reports
// the module it declares.
package gomod

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wayneashleyberry/findlevel/pkg/search"
	"golang.org/x/mod/modfile"
)

// FileName is the name of the file Locate searches for.
const FileName = "go.mod"

// Module describes a parsed go.mod file.
type Module struct {
	GoModPath string
	Path      string
	GoVersion string
	Requires  []Require
}

// Require is a single requirement of a module.
type Require struct {
	Path     string
	Version  string
	Indirect bool
}

// Locate finds exactly one go.mod in the first of dirs that contains one,
// scanning at most maxDepth levels below each directory, and parses it. A
// negative maxDepth means no limit.
func Locate(ctx context.Context, dirs []string, maxDepth int) (Module, error) {
	opts := search.Options{
		Dirs:  dirs,
		Match: search.NameMatcher(FileName),
	}

	if maxDepth >= 0 {
		opts.MaxDepth = search.Depth(maxDepth)
	}

	path, err := search.Resolve(ctx, opts)
	if err != nil {
		return Module{}, fmt.Errorf("failed to locate %s: %w", FileName, err)
	}

	return Parse(ctx, path)
}

// Parse reads the go.mod file at path.
func Parse(ctx context.Context, path string) (Module, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return Module{}, fmt.Errorf("could not open %s: %w", path, err)
	}

	mf, err := modfile.Parse(path, data, nil)
	if err != nil {
		return Module{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	mod := Module{GoModPath: path}

	if mf.Module != nil {
		mod.Path = mf.Module.Mod.Path
	}

	if mf.Go != nil {
		mod.GoVersion = mf.Go.Version
	}

	for _, req := range mf.Require {
		mod.Requires = append(mod.Requires, Require{
			Path:     req.Mod.Path,
			Version:  req.Mod.Version,
			Indirect: req.Indirect,
		})
	}

	slog.DebugContext(ctx, "parsed "+FileName, slog.String("path", path), slog.Int("requires", len(mod.Requires)))

	return mod, nil
}

// Print writes the module summary to w. Requirements are listed when deps is
// set; indirect ones are skipped unless indirect is also set.
func (m Module) Print(w io.Writer, deps, indirect bool) {
	fmt.Fprintf(w, "%s (%s)\n", m.Path, m.GoModPath)

	if !deps {
		return
	}

	for _, req := range m.Requires {
		switch {
		case !req.Indirect:
			fmt.Fprintf(w, "\t%s %s\n", req.Path, req.Version)
		case indirect:
			fmt.Fprintf(w, "\t%s %s // indirect\n", req.Path, req.Version)
		}
	}
}
