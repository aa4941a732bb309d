package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tagnav/internal/process"
)

const testConfig = `tool:
  global: global
  gtags: gtags
cache:
  enabled: false
progress:
  interval_ms: 10
watch:
  enabled: false
`

// makeWorkspace creates root/GTAGS, root/src/main.c and a config file
// outside the workspace.
func makeWorkspace(t *testing.T) (root, file, cfgPath string) {
	t.Helper()
	root = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "GTAGS"), nil, 0644))
	file = filepath.Join(root, "src", "main.c")
	require.NoError(t, os.WriteFile(file, []byte("int main;"), 0644))

	cfgPath = filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0644))
	return root, file, cfgPath
}

func newTestApp(t *testing.T, opts appOptions) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	if opts.Out == nil {
		opts.Out = &out
	}
	opts.LogOutput = &bytes.Buffer{}
	if opts.Runner == nil {
		opts.Runner = process.NewMockRunner()
	}
	a, err := newApp(opts)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, &out
}

func TestNewApp_FindsWorkspaceFromFile(t *testing.T) {
	t.Parallel()

	root, file, cfgPath := makeWorkspace(t)
	a, _ := newTestApp(t, appOptions{ConfigFile: cfgPath, File: file})

	client, got, err := a.client()
	require.NoError(t, err)
	assert.Equal(t, root, got)
	assert.Equal(t, root, client.Root())
	assert.False(t, a.cfg.Cache.Enabled, "explicit config file is used")
}

func TestNewApp_ExplicitRoot(t *testing.T) {
	t.Parallel()

	_, _, cfgPath := makeWorkspace(t)
	other := t.TempDir()
	a, _ := newTestApp(t, appOptions{ConfigFile: cfgPath, Root: other})

	_, got, err := a.client()
	require.NoError(t, err)
	assert.Equal(t, other, got, "--root skips the marker search")
}

func TestNewApp_ProjectConfig(t *testing.T) {
	t.Parallel()

	root, file, _ := makeWorkspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".tagnav"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tagnav", "config.yml"),
		[]byte("tool:\n  global: /opt/global/bin/global\n"), 0644))

	a, _ := newTestApp(t, appOptions{File: file})

	assert.Equal(t, "/opt/global/bin/global", a.cfg.Tool.Global)
}

func TestNewApp_MissingConfigFile(t *testing.T) {
	t.Parallel()

	_, err := newApp(appOptions{ConfigFile: filepath.Join(t.TempDir(), "missing.yml"), File: t.TempDir()})

	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestConfigDir(t *testing.T) {
	t.Parallel()

	root, file, _ := makeWorkspace(t)
	plain := t.TempDir()
	plainFile := filepath.Join(plain, "x.c")
	require.NoError(t, os.WriteFile(plainFile, nil, 0644))

	assert.Equal(t, "/explicit", configDir(file, "/explicit"))
	assert.Equal(t, root, configDir(file, ""))
	assert.Equal(t, plain, configDir(plainFile, ""))
	assert.Equal(t, plain, configDir(plain, ""))
}
