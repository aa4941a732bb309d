// Package history keeps the jump-back stack of cursor locations.
package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// ErrEmpty is returned when there is no location to return to.
var ErrEmpty = errors.New("history empty")

// Location is a cursor position. Row is 1-based, Column is 0-based.
type Location struct {
	Path   string `json:"path"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

// Target renders "path:row:column".
func (l Location) Target() string {
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Row, l.Column)
}

// IsZero reports whether the location has no path.
func (l Location) IsZero() bool {
	return l.Path == ""
}

// ParseTarget parses "path:row:column" or "path:row". The path may itself
// contain colons (Windows drive letters); the numeric fields are taken from
// the right.
func ParseTarget(target string) (Location, error) {
	parts := strings.Split(target, ":")
	if len(parts) < 2 {
		return Location{}, fmt.Errorf("invalid target %q: want path:row[:column]", target)
	}

	nums := []int{}
	for i := len(parts) - 1; i > 0 && len(nums) < 2; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			break
		}
		nums = append([]int{n}, nums...)
	}
	if len(nums) == 0 {
		return Location{}, fmt.Errorf("invalid target %q: missing row", target)
	}

	loc := Location{
		Path: strings.Join(parts[:len(parts)-len(nums)], ":"),
		Row:  nums[0],
	}
	if len(nums) == 2 {
		loc.Column = nums[1]
	}
	if loc.Path == "" {
		return Location{}, fmt.Errorf("invalid target %q: empty path", target)
	}
	if loc.Row < 1 || loc.Column < 0 {
		return Location{}, fmt.Errorf("invalid target %q: row must be >= 1 and column >= 0", target)
	}
	return loc, nil
}

// History is a LIFO of previous locations with an optional forward stack
// of undone jumps. Safe for concurrent use.
//
// One History is created by the entry point and shared by every
// navigation call site. It is never persisted.
type History struct {
	mu      sync.Mutex
	back    []Location
	forward []Location
}

// New creates an empty history.
func New() *History {
	return &History{}
}

// Push records a location and clears the forward stack.
func (h *History) Push(loc Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.back = append(h.back, loc)
	h.forward = nil
}

// Pop removes and returns the most recent location. On an empty history it
// returns ErrEmpty and changes nothing.
func (h *History) Pop() (Location, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.back) == 0 {
		return Location{}, ErrEmpty
	}
	loc := h.back[len(h.back)-1]
	h.back = h.back[:len(h.back)-1]
	h.forward = append(h.forward, loc)
	return loc, nil
}

// Forward redoes the most recent Pop: the location moves back onto the
// history and is returned. ErrEmpty when nothing was popped since the last
// Push.
func (h *History) Forward() (Location, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.forward) == 0 {
		return Location{}, ErrEmpty
	}
	loc := h.forward[len(h.forward)-1]
	h.forward = h.forward[:len(h.forward)-1]
	h.back = append(h.back, loc)
	return loc, nil
}

// Peek returns the most recent location without removing it.
func (h *History) Peek() (Location, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.back) == 0 {
		return Location{}, false
	}
	return h.back[len(h.back)-1], true
}

// Len returns the number of locations available to Pop.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.back)
}

// Snapshot returns the back stack, oldest first.
func (h *History) Snapshot() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Location, len(h.back))
	copy(out, h.back)
	return out
}
