package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/work/proj")
	f, err := NewFilter(root, []string{"vendor/**", "**/*_test.go", "gen/*.pb.go"}, false)
	require.NoError(t, err)

	tests := []struct {
		path     string
		excluded bool
	}{
		{"/work/proj/vendor/lib/a.go", true},
		{"/work/proj/pkg/x_test.go", true},
		{"/work/proj/root_test.go", true},
		{"/work/proj/gen/api.pb.go", true},
		{"/work/proj/gen/sub/api.pb.go", false},
		{"/work/proj/pkg/x.go", false},
		{"/other/vendor/lib/a.go", false},
		{"vendor/rel.go", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.excluded, f.Excluded(filepath.FromSlash(tt.path)))
		})
	}
}

func TestFilter_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := NewFilter("/work", []string{"[unclosed"}, false)
	assert.Error(t, err)
}

func TestFilter_Gitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("build/\n*.generated.c\n"), 0644))

	f, err := NewFilter(root, nil, true)
	require.NoError(t, err)

	assert.True(t, f.Excluded(filepath.Join(root, "build", "out.c")))
	assert.True(t, f.Excluded(filepath.Join(root, "src", "table.generated.c")))
	assert.False(t, f.Excluded(filepath.Join(root, "src", "main.c")))
}

func TestFilter_MissingGitignoreIsFine(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(t.TempDir(), nil, true)

	require.NoError(t, err)
	assert.True(t, f.Empty())
}

func TestFilter_ApplyPreservesOrder(t *testing.T) {
	t.Parallel()

	f, err := NewFilter("/r", []string{"skip/**"}, false)
	require.NoError(t, err)

	in := []TagMatch{
		{Symbol: "c", Path: "/r/c.c"},
		{Symbol: "s", Path: "/r/skip/s.c"},
		{Symbol: "a", Path: "/r/a.c"},
	}
	got := f.Apply(in)

	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Symbol)
	assert.Equal(t, "a", got[1].Symbol)
}

func TestFilter_NilKeepsEverything(t *testing.T) {
	t.Parallel()

	var f *Filter
	in := []TagMatch{{Path: "/x"}}

	assert.True(t, f.Empty())
	assert.False(t, f.Excluded("/x"))
	assert.Equal(t, in, f.Apply(in))
}
