package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTree creates root/a/b/c/d and optionally places the marker in root/a/b.
func makeTree(t *testing.T, withMarker bool) (root string) {
	t.Helper()

	root = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b", "c", "d"), 0755))
	if withMarker {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", DefaultMarker), nil, 0644))
	}
	return root
}

func TestLocate_FindsMarkerInAncestor(t *testing.T) {
	t.Parallel()

	root := makeTree(t, true)
	loc := NewLocator("")

	got, ok := loc.Locate(filepath.Join(root, "a", "b", "c", "d"))

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a", "b"), got)
}

func TestLocate_MarkerInStartDir(t *testing.T) {
	t.Parallel()

	root := makeTree(t, true)
	loc := NewLocator(DefaultMarker)

	got, ok := loc.Locate(filepath.Join(root, "a", "b"))

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a", "b"), got)
}

func TestLocate_NormalizesStartDir(t *testing.T) {
	t.Parallel()

	root := makeTree(t, true)
	loc := NewLocator("")

	messy := filepath.Join(root, "a", "b", "c") + string(filepath.Separator) + "." + string(filepath.Separator) + "d" + string(filepath.Separator) + ".."

	got, ok := loc.Locate(messy)

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a", "b"), got)
}

func TestLocate_NoMarkerTerminatesInDepthSteps(t *testing.T) {
	t.Parallel()

	root := makeTree(t, false)
	start := filepath.Join(root, "a", "b", "c", "d")

	calls := 0
	loc := NewLocator("marker-that-does-not-exist-anywhere")
	loc.stat = func(name string) (os.FileInfo, error) {
		calls++
		return os.Stat(name)
	}

	got, ok := loc.Locate(start)

	assert.False(t, ok)
	assert.Empty(t, got)

	// One stat for the start dir, then one marker lookup per ancestor.
	depth := strings.Count(filepath.ToSlash(filepath.Clean(start)), "/") + 1
	assert.LessOrEqual(t, calls, depth+2)
}

func TestLocate_FilesystemRootTerminates(t *testing.T) {
	t.Parallel()

	loc := NewLocator("marker-that-does-not-exist-anywhere")

	_, ok := loc.Locate(string(filepath.Separator))

	assert.False(t, ok)
}

func TestLocate_NotADirectory(t *testing.T) {
	t.Parallel()

	root := makeTree(t, true)
	file := filepath.Join(root, "a", "b", "c", "file.c")
	require.NoError(t, os.WriteFile(file, []byte("int x;"), 0644))
	loc := NewLocator("")

	_, ok := loc.Locate(file)
	assert.False(t, ok, "a regular file is not a valid start directory")

	_, ok = loc.Locate(filepath.Join(root, "missing"))
	assert.False(t, ok)
}

func TestLocateFrom_FilePath(t *testing.T) {
	t.Parallel()

	root := makeTree(t, true)
	file := filepath.Join(root, "a", "b", "c", "file.c")
	require.NoError(t, os.WriteFile(file, []byte("int x;"), 0644))
	loc := NewLocator("")

	got, ok := loc.LocateFrom(file)

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a", "b"), got)
}

func TestLocate_MarkerMayBeDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "proj", ".tags", "sub"), 0755))
	loc := NewLocator(".tags")

	got, ok := loc.Locate(filepath.Join(root, "proj", ".tags", "sub"))

	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "proj"), got)
}
