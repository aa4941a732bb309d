package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/tagnav/internal/task"
)

// Progress styles accepted by --progress.
const (
	progressAuto    = "auto"
	progressSpinner = "spinner"
	progressText    = "text"
	progressNone    = "none"
)

// spinnerIndicator renders task ticks as a progressbar spinner.
type spinnerIndicator struct {
	mu  sync.Mutex
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newSpinnerIndicator(w io.Writer) *spinnerIndicator {
	return &spinnerIndicator{w: w}
}

func (s *spinnerIndicator) Tick(name string, frame int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		s.bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(s.w),
			progressbar.OptionSetDescription(name),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = s.bar.Add(1)
}

func (s *spinnerIndicator) Finish(message string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		_ = s.bar.Finish()
		s.bar = nil
	}
	if message != "" {
		fmt.Fprintln(s.w, message)
	}
}

// lineIndicator prints only the final message. Used when the output is
// not a terminal.
type lineIndicator struct {
	w io.Writer
}

func (l lineIndicator) Tick(string, int) {}

func (l lineIndicator) Finish(message string, success bool) {
	if message != "" {
		fmt.Fprintln(l.w, message)
	}
}

// newIndicator picks the indicator for style. auto uses the spinner on a
// terminal and plain lines otherwise.
func newIndicator(style string, w io.Writer) (task.Indicator, error) {
	switch style {
	case "", progressAuto:
		if isTerminal(w) {
			return newSpinnerIndicator(w), nil
		}
		return lineIndicator{w: w}, nil
	case progressSpinner:
		return newSpinnerIndicator(w), nil
	case progressText:
		return task.NewTextIndicator(w), nil
	case progressNone:
		return lineIndicator{w: w}, nil
	}
	return nil, fmt.Errorf("unknown progress style %q (want auto, spinner, text or none)", style)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
