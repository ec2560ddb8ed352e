// Command-line tool for resolving a single file in a directory tree.
// Directories are scanned level by level and the shallowest match wins.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/wayneashleyberry/findlevel/pkg/gomod"
	"github.com/wayneashleyberry/findlevel/pkg/search"
)

func setDefaultLogger(level slog.Leveler) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler)

	slog.SetDefault(logger)
}

func main() {
	ctx := context.Background()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	setDefaultLogger(slog.LevelInfo)

	return newApp(os.Stdout).RunContext(ctx, os.Args)
}

func maxDepthFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "max-depth",
		Value:   search.Unbounded,
		Usage:   "Maximum number of directory levels to scan, negative for no limit",
		EnvVars: []string{"FINDLEVEL_MAX_DEPTH"},
	}
}

func newApp(w io.Writer) *cli.App {
	return &cli.App{
		Name:   "findlevel",
		Usage:  "Resolve a file by searching directories level by level",
		Writer: w,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Value: false,
				Usage: "Print debug logs",
				Action: func(_ *cli.Context, v bool) error {
					if v {
						setDefaultLogger(slog.LevelDebug)
					}

					return nil
				},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "Resolve exactly one file from an explicit path or fallback directories",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Usage:   "Explicit file, or directory whose direct children are searched",
						EnvVars: []string{"FINDLEVEL_FILE"},
					},
					&cli.StringSliceFlag{
						Name:    "dir",
						Usage:   "Fallback directory, tried in order",
						EnvVars: []string{"FINDLEVEL_DIRS"},
					},
					&cli.StringFlag{
						Name:    "ext",
						Usage:   "File extension filter, case-insensitive",
						EnvVars: []string{"FINDLEVEL_EXT"},
					},
					maxDepthFlag(),
				},
				Action: func(c *cli.Context) error {
					opts := search.Options{
						Path:      c.String("file"),
						Dirs:      c.StringSlice("dir"),
						Extension: c.String("ext"),
					}

					if depth := c.Int("max-depth"); depth >= 0 {
						opts.MaxDepth = search.Depth(depth)
					}

					path, err := search.Resolve(c.Context, opts)
					if err != nil {
						return fmt.Errorf("failed to resolve file: %w", err)
					}

					fmt.Fprintln(c.App.Writer, path)

					return nil
				},
			},
			{
				Name:      "find",
				Usage:     "List every file at the shallowest matching level",
				ArgsUsage: "DIR",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "ext",
						Usage:   "File extension filter, case-insensitive",
						EnvVars: []string{"FINDLEVEL_EXT"},
					},
					maxDepthFlag(),
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected exactly one directory argument")
					}

					match := search.MatchAll
					if ext := c.String("ext"); ext != "" {
						match = search.ExtensionMatcher(ext)
					}

					files, err := search.FindFilesAtSameLevel(c.Context, c.Args().First(), match, c.Int("max-depth"))
					if err != nil {
						return fmt.Errorf("failed to find files: %w", err)
					}

					if len(files) == 0 {
						return cli.Exit("", 1)
					}

					for _, file := range files {
						fmt.Fprintln(c.App.Writer, file)
					}

					return nil
				},
			},
			{
				Name:  "gomod",
				Usage: "Locate a go.mod and print the module it declares",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "dir",
						Value: cli.NewStringSlice("."),
						Usage: "Directory to search, tried in order",
					},
					&cli.BoolFlag{
						Name:  "deps",
						Usage: "List required modules",
					},
					&cli.BoolFlag{
						Name:  "indirect",
						Usage: "Include indirect requirements",
					},
					maxDepthFlag(),
				},
				Action: func(c *cli.Context) error {
					mod, err := gomod.Locate(c.Context, c.StringSlice("dir"), c.Int("max-depth"))
					if err != nil {
						return err
					}

					mod.Print(c.App.Writer, c.Bool("deps"), c.Bool("indirect"))

					return nil
				},
			},
		},
	}
}
