package tags

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagMatch_Line(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"4096", 4096, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"12a", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			got, err := TagMatch{LineNumber: tt.line}.Line()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTagMatch_Target(t *testing.T) {
	t.Parallel()

	m := TagMatch{Symbol: "main", LineNumber: "12", Path: "/src/main.c"}
	assert.Equal(t, "/src/main.c:12:0", m.Target())
}

func TestEnvironment_Vars(t *testing.T) {
	t.Parallel()

	sep := string(os.PathListSeparator)

	t.Run("all set", func(t *testing.T) {
		t.Parallel()
		env := newEnvironment("/usr/bin", "/work/proj", []string{"/lib/a", "", "/lib/b", "/lib/a"})
		assert.Equal(t, []string{
			"PATH=/usr/bin",
			"GTAGSROOT=/work/proj",
			"GTAGSLIBPATH=/lib/a" + sep + "/lib/b",
		}, env.Vars())
	})

	t.Run("tool vars omitted when unset", func(t *testing.T) {
		t.Parallel()
		env := newEnvironment("/usr/bin", "", nil)
		assert.Equal(t, []string{"PATH=/usr/bin"}, env.Vars())
	})
}

func TestEnvironment_IsImmutable(t *testing.T) {
	t.Parallel()

	aux := []string{"/lib/a"}
	env := newEnvironment("/usr/bin", "/root", aux)

	aux[0] = "/changed"
	got := env.AuxiliaryIndexPaths()
	got[0] = "/changed-again"

	assert.Equal(t, []string{"/lib/a"}, env.AuxiliaryIndexPaths())
	assert.Equal(t, "/root", env.RootOverride())
	assert.Equal(t, "/usr/bin", env.SearchPath())
}

func TestNewEnvironment_InheritsPath(t *testing.T) {
	t.Setenv("PATH", "/opt/tools/bin")

	env := NewEnvironment("/root", nil)

	assert.Equal(t, "/opt/tools/bin", env.SearchPath())
}
