package task

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Indicator renders task progress. Tick is called from the ticker
// goroutine, Finish from the worker after the last Tick.
type Indicator interface {
	Tick(name string, frame int)
	Finish(message string, success bool)
}

type nopIndicator struct{}

func (nopIndicator) Tick(string, int) {}

func (nopIndicator) Finish(string, bool) {}

// barWidth is the number of cells in the bouncing frame.
const barWidth = 8

// Frame returns the bouncing "[  =     ]" frame for a tick count.
func Frame(n int) string {
	span := 2 * (barWidth - 1)
	pos := n % span
	if pos >= barWidth {
		pos = span - pos
	}
	return "[" + strings.Repeat(" ", pos) + "=" + strings.Repeat(" ", barWidth-1-pos) + "]"
}

// TextIndicator redraws a single status line on w.
type TextIndicator struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextIndicator writes progress to w, usually stderr.
func NewTextIndicator(w io.Writer) *TextIndicator {
	return &TextIndicator{w: w}
}

func (i *TextIndicator) Tick(name string, frame int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fmt.Fprintf(i.w, "\r%s %s", name, Frame(frame))
}

func (i *TextIndicator) Finish(message string, success bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fmt.Fprint(i.w, "\r\033[K")
	if message != "" {
		fmt.Fprintln(i.w, message)
	}
}
