package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnv(t *testing.T, env map[string]string, windows bool) {
	t.Helper()
	origLookup, origWindows := lookupEnv, isWindows
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	isWindows = windows
	t.Cleanup(func() {
		lookupEnv, isWindows = origLookup, origWindows
	})
}

func TestExpandVars(t *testing.T) {
	withEnv(t, map[string]string{
		"REPOS": "/src/repos",
		"EMPTY": "",
	}, false)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no references", "/plain/path", "/plain/path"},
		{"dollar form", "$REPOS/proto1", "/src/repos/proto1"},
		{"brace form", "${REPOS}/proto1", "/src/repos/proto1"},
		{"set but empty", "/a/$EMPTY/b", "/a//b"},
		{"unset kept verbatim", "$NOPE/x", "$NOPE/x"},
		{"unset brace kept verbatim", "${NOPE}/x", "${NOPE}/x"},
		{"malformed brace kept verbatim", "${REPOS/x", "${REPOS/x"},
		{"lone dollar", "/a/$/b", "/a/$/b"},
		{"percent ignored off windows", "%REPOS%/x", "%REPOS%/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandVars(tt.in))
		})
	}
}

func TestExpandVars_WindowsPercentForm(t *testing.T) {
	withEnv(t, map[string]string{"USERPROFILE": `C:\Users\dev`}, true)

	assert.Equal(t, `C:\Users\dev\src`, ExpandVars(`%USERPROFILE%\src`))
	assert.Equal(t, `%UNKNOWN%\src`, ExpandVars(`%UNKNOWN%\src`))
}

func TestExpandHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "pkg", "llvm"), ExpandHome("~/pkg/llvm"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~other/path", ExpandHome("~other/path"))
}

func TestExpand_ReturnsAbsoluteCleanPath(t *testing.T) {
	withEnv(t, map[string]string{"SUB": "nested"}, false)

	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "nested", "dir"), Expand("./$SUB/./dir/"))
	assert.Equal(t, "", Expand(""))
}

func TestExpandAll_DropsEmptyAndDuplicates(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")

	got := ExpandAll([]string{a, "", b, "  ", a + string(filepath.Separator)})

	assert.Equal(t, []string{a, b}, got)
}

func TestRelativeTo(t *testing.T) {
	t.Parallel()

	root := filepath.Join(string(filepath.Separator), "work", "proj")

	rel, ok := RelativeTo(filepath.Join(root, "src", "main.c"), root)
	assert.True(t, ok)
	assert.Equal(t, "src/main.c", rel)

	_, ok = RelativeTo(filepath.Join(string(filepath.Separator), "work", "other", "x.c"), root)
	assert.False(t, ok)

	rel, ok = RelativeTo(filepath.Join("lib", "x.c"), root)
	assert.True(t, ok)
	assert.Equal(t, "lib/x.c", rel)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("a", "c"), Normalize("a/b/../c/"))
}
