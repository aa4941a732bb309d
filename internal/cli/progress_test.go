package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tagnav/internal/task"
)

func TestNewIndicator(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tests := []struct {
		style string
		want  any
	}{
		{"", lineIndicator{w: &buf}},
		{progressAuto, lineIndicator{w: &buf}},
		{progressNone, lineIndicator{w: &buf}},
	}
	for _, tt := range tests {
		ind, err := newIndicator(tt.style, &buf)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ind, "style %q on a non-terminal", tt.style)
	}

	ind, err := newIndicator(progressText, &buf)
	require.NoError(t, err)
	assert.IsType(t, &task.TextIndicator{}, ind)

	ind, err = newIndicator(progressSpinner, &buf)
	require.NoError(t, err)
	assert.IsType(t, &spinnerIndicator{}, ind)

	_, err = newIndicator("fancy", &buf)
	assert.ErrorContains(t, err, "unknown progress style")
}

func TestSpinnerIndicator(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := newSpinnerIndicator(&buf)
	s.Tick("rebuild", 0)
	s.Tick("rebuild", 1)
	s.Finish("build success on dir: /w", true)

	assert.Contains(t, buf.String(), "build success on dir: /w\n")
	assert.Nil(t, s.bar, "bar is released on finish")
}

func TestLineIndicator(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := lineIndicator{w: &buf}
	l.Tick("rebuild", 3)
	l.Finish("", false)
	l.Finish("done", true)

	assert.Equal(t, "done\n", buf.String())
}
