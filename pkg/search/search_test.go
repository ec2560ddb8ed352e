package search

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	require.NoError(t, err, "failed to create parent directory")

	err = os.WriteFile(path, []byte(name), 0o644) //nolint: gosec
	require.NoError(t, err, "failed to write temp file")

	return path
}

func TestExtensionMatcher(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{"PY", ".py", "py", ".Py"} {
		match := ExtensionMatcher(ext)

		require.True(t, match("Foo.PY"), "extension %q", ext)
		require.True(t, match("foo.py"), "extension %q", ext)
		require.False(t, match("foo.pyc"), "extension %q", ext)
		require.False(t, match("py"), "extension %q", ext)
	}
}

func TestExtensionMatcher_Empty(t *testing.T) {
	t.Parallel()

	match := ExtensionMatcher("")

	require.True(t, match("trailing."))
	require.False(t, match("file.txt"))
	require.False(t, match("noext"))
}

func TestNameMatcher(t *testing.T) {
	t.Parallel()

	match := NameMatcher("go.mod")

	require.True(t, match("go.mod"))
	require.False(t, match("Go.mod"))
	require.False(t, match("go.mod.bak"))
}

func TestFindFilesAtSameLevel_DepthLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	want := writeTempFile(t, dir, filepath.Join("a", "b", "firmware.bin"))
	writeTempFile(t, dir, "readme.txt")

	for depth := 2; depth <= 4; depth++ {
		files, err := FindFilesAtSameLevel(ctx, dir, ExtensionMatcher("bin"), depth)
		require.NoError(t, err)
		require.Equal(t, []string{want}, files, "depth %d", depth)
	}

	for depth := 0; depth < 2; depth++ {
		files, err := FindFilesAtSameLevel(ctx, dir, ExtensionMatcher("bin"), depth)
		require.NoError(t, err)
		require.Empty(t, files, "depth %d", depth)
	}

	files, err := FindFilesAtSameLevel(ctx, dir, ExtensionMatcher("bin"), Unbounded)
	require.NoError(t, err)
	require.Equal(t, []string{want}, files)
}

func TestFindFilesAtSameLevel_ShallowestLevelWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	first := writeTempFile(t, dir, filepath.Join("x", "one.cfg"))
	second := writeTempFile(t, dir, filepath.Join("y", "two.cfg"))
	writeTempFile(t, dir, filepath.Join("x", "deep", "three.cfg"))
	writeTempFile(t, dir, filepath.Join("x", "deep", "four.cfg"))
	writeTempFile(t, dir, filepath.Join("x", "deep", "five.cfg"))

	files, err := FindFilesAtSameLevel(ctx, dir, ExtensionMatcher("cfg"), Unbounded)
	require.NoError(t, err)
	require.Equal(t, []string{first, second}, files)
}

func TestFindFilesAtSameLevel_NoMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTempFile(t, dir, filepath.Join("a", "b.txt"))

	files, err := FindFilesAtSameLevel(context.Background(), dir, ExtensionMatcher("elf"), Unbounded)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestFindFilesAtSameLevel_MissingDir(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing")

	_, err := FindFilesAtSameLevel(context.Background(), missing, MatchAll, Unbounded)
	require.Error(t, err)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFindFilesAtSameLevel_SymlinkedDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := t.TempDir()
	writeTempFile(t, target, "board.cfg")

	err := os.Symlink(target, filepath.Join(dir, "link"))
	require.NoError(t, err)

	files, err := FindFilesAtSameLevel(context.Background(), dir, ExtensionMatcher("cfg"), 1)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "link", "board.cfg")}, files)
}

func TestFindFilesAtSameLevel_PermissionDenied(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	writeTempFile(t, locked, "target.cfg")

	err := os.Chmod(locked, 0o000)
	require.NoError(t, err)

	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) }) //nolint: gosec

	_, err = FindFilesAtSameLevel(context.Background(), dir, ExtensionMatcher("cfg"), Unbounded)
	require.ErrorIs(t, err, fs.ErrPermission)
}
