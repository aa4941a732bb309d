package navigator

import (
	"fmt"
	"io"
	"sync"

	"github.com/mvp-joe/tagnav/internal/history"
)

// FileHandle is a file that may still be loading.
type FileHandle interface {
	// Path is the file that was requested.
	Path() string

	// Ready is closed once the file can accept a cursor position.
	Ready() <-chan struct{}

	// SetCursor moves the cursor. Row is 1-based, col 0-based. Only valid
	// after Ready is closed.
	SetCursor(row, col int) error
}

// Opener starts opening files. The returned handle may not be ready yet.
type Opener interface {
	RequestOpen(path string) FileHandle
}

// readyHandle is a FileHandle that is ready immediately.
type readyHandle struct {
	path  string
	ready chan struct{}
	set   func(loc history.Location) error
}

func newReadyHandle(path string, set func(history.Location) error) *readyHandle {
	h := &readyHandle{path: path, ready: make(chan struct{}), set: set}
	close(h.ready)
	return h
}

func (h *readyHandle) Path() string           { return h.path }
func (h *readyHandle) Ready() <-chan struct{} { return h.ready }
func (h *readyHandle) SetCursor(row, col int) error {
	return h.set(history.Location{Path: h.path, Row: row, Column: col})
}

// PrintOpener writes each navigation target as "path:row:col" on its own
// line. Editors that accept such targets can consume the output directly.
type PrintOpener struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrintOpener writes targets to w.
func NewPrintOpener(w io.Writer) *PrintOpener {
	return &PrintOpener{w: w}
}

func (p *PrintOpener) RequestOpen(path string) FileHandle {
	return newReadyHandle(path, func(loc history.Location) error {
		p.mu.Lock()
		defer p.mu.Unlock()
		_, err := fmt.Fprintln(p.w, loc.Target())
		return err
	})
}

// NopOpener is always ready and remembers the last cursor position.
type NopOpener struct {
	mu   sync.Mutex
	last history.Location
}

func (n *NopOpener) RequestOpen(path string) FileHandle {
	return newReadyHandle(path, func(loc history.Location) error {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.last = loc
		return nil
	})
}

// Last returns the most recent cursor position.
func (n *NopOpener) Last() history.Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
