package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script in a temp dir and returns
// the directory and script path. Tests using it stay serial: exec of a file
// another goroutine just wrote can fail with ETXTBSY.
func writeScript(t *testing.T, name, body string) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures need a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return dir, path
}

func TestRun_CapturesStdoutAndStderrSeparately(t *testing.T) {
	_, script := writeScript(t, "tool", "echo out-line\necho err-line 1>&2\n")

	res, err := NewRunner(nil).Run(context.Background(), Command{Name: script})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out-line\n", res.Output)
	assert.Equal(t, "err-line\n", res.ErrorOutput)
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	_, script := writeScript(t, "tool", "echo broken 1>&2\nexit 3\n")

	res, err := NewRunner(nil).Run(context.Background(), Command{Name: script})

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "broken\n", res.ErrorOutput)
}

func TestRun_EnvironmentIsExactlyCommandEnv(t *testing.T) {
	t.Setenv("TAGNAV_PARENT_ONLY", "leaked")

	_, script := writeScript(t, "tool", "echo \"root=$GTAGSROOT lib=$GTAGSLIBPATH parent=$TAGNAV_PARENT_ONLY\"\n")

	res, err := NewRunner(nil).Run(context.Background(), Command{
		Name: script,
		Env:  []string{"PATH=/usr/bin:/bin", "GTAGSROOT=/work/proj", "GTAGSLIBPATH=/a:/b"},
	})

	require.NoError(t, err)
	assert.Equal(t, "root=/work/proj lib=/a:/b parent=\n", res.Output)

	assert.NotEqual(t, "/work/proj", os.Getenv("GTAGSROOT"), "parent environment must not change")
}

func TestRun_WorkingDirectory(t *testing.T) {
	_, script := writeScript(t, "tool", "pwd\n")
	dir := t.TempDir()

	res, err := NewRunner(nil).Run(context.Background(), Command{Name: script, Dir: dir})

	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(res.Output))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRun_MissingBinaryFailsToStart(t *testing.T) {
	t.Parallel()

	_, err := NewRunner(nil).Run(context.Background(), Command{
		Name: filepath.Join(t.TempDir(), "no-such-tool"),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStart))
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "global", Command{Name: "global"}.String())
	assert.Equal(t, "global -a -x main", Command{Name: "global", Args: []string{"-a", "-x", "main"}}.String())
}

func TestLookPath(t *testing.T) {
	t.Parallel()

	_, err := LookPath("tagnav-definitely-not-installed")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tagnav-definitely-not-installed")
}

func TestMockRunner(t *testing.T) {
	t.Parallel()

	m := NewMockRunner().
		On("global -c ma", "main\nmalloc\n").
		OnResult("gtags -v", Result{ExitCode: 2, ErrorOutput: "boom"}).
		OnError("missing", errors.New("exec: not found"))

	res, err := m.Run(context.Background(), Command{Name: "global", Args: []string{"-c", "ma"}})
	require.NoError(t, err)
	assert.Equal(t, "main\nmalloc\n", res.Output)

	res, err = m.Run(context.Background(), Command{Name: "gtags", Args: []string{"-v"}})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.ErrorOutput)

	_, err = m.Run(context.Background(), Command{Name: "missing"})
	assert.ErrorIs(t, err, ErrStart)

	res, err = m.Run(context.Background(), Command{Name: "other"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Len(t, m.Calls(), 4)
	assert.Equal(t, "other", m.LastCall().Name)
}
