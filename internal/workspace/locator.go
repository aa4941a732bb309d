// Package workspace finds the workspace root that holds a tag index.
package workspace

import (
	"os"
	"path/filepath"
)

// DefaultMarker is the GNU GLOBAL definition database, present at every
// indexed workspace root.
const DefaultMarker = "GTAGS"

// Locator walks parent directories looking for a marker file.
type Locator struct {
	marker string

	// stat is replaceable so tests can count filesystem lookups.
	stat func(name string) (os.FileInfo, error)
}

// NewLocator creates a locator for the given marker filename.
// An empty marker selects DefaultMarker.
func NewLocator(marker string) *Locator {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Locator{
		marker: marker,
		stat:   os.Stat,
	}
}

// Marker returns the filename the locator searches for.
func (l *Locator) Marker() string {
	return l.marker
}

// Locate returns the nearest directory at or above startDir that contains
// the marker as a direct child.
//
// startDir must be an existing directory. The walk stops when the parent of
// the current directory is the directory itself, which is how filesystem
// roots ("/", "C:\", "\\server\share\") present after cleaning.
func (l *Locator) Locate(startDir string) (string, bool) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	current = filepath.Clean(current)

	info, err := l.stat(current)
	if err != nil || !info.IsDir() {
		return "", false
	}

	for {
		if _, err := l.stat(filepath.Join(current, l.marker)); err == nil {
			return current, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// LocateFrom accepts either a directory or a file path. For a file the
// search starts in its containing directory.
func (l *Locator) LocateFrom(path string) (string, bool) {
	info, err := l.stat(path)
	if err != nil {
		return "", false
	}
	if !info.IsDir() {
		path = filepath.Dir(path)
	}
	return l.Locate(path)
}
