package tags

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TagMatch is one record of definition or reference output.
type TagMatch struct {
	// Symbol is the matched identifier.
	Symbol string `json:"symbol"`

	// LineNumber is kept as the tool printed it. Use Line to convert.
	LineNumber string `json:"line"`

	// Path is absolute or relative to the workspace root. Never empty.
	Path string `json:"path"`

	// Signature is the trailing source text, verbatim.
	Signature string `json:"signature"`
}

// Line returns LineNumber as a positive integer.
func (m TagMatch) Line() (int, error) {
	n, err := strconv.Atoi(m.LineNumber)
	if err != nil {
		return 0, fmt.Errorf("invalid line number %q: %w", m.LineNumber, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid line number %q: must be >= 1", m.LineNumber)
	}
	return n, nil
}

// Target renders the navigation target "path:line:0".
func (m TagMatch) Target() string {
	return m.Path + ":" + m.LineNumber + ":0"
}

// Environment is the tool-specific variable set for one workspace.
// It is immutable once built.
type Environment struct {
	searchPath   string
	rootOverride string
	auxPaths     []string
}

// NewEnvironment captures the current PATH and the tool variables.
// Empty and duplicate auxiliary paths are dropped, order is kept.
func NewEnvironment(rootOverride string, auxPaths []string) Environment {
	return newEnvironment(os.Getenv("PATH"), rootOverride, auxPaths)
}

func newEnvironment(searchPath, rootOverride string, auxPaths []string) Environment {
	seen := make(map[string]bool, len(auxPaths))
	aux := make([]string, 0, len(auxPaths))
	for _, p := range auxPaths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		aux = append(aux, p)
	}
	return Environment{
		searchPath:   searchPath,
		rootOverride: rootOverride,
		auxPaths:     aux,
	}
}

// SearchPath returns the inherited PATH value.
func (e Environment) SearchPath() string { return e.searchPath }

// RootOverride returns the GTAGSROOT value, or "".
func (e Environment) RootOverride() string { return e.rootOverride }

// AuxiliaryIndexPaths returns a copy of the GTAGSLIBPATH entries.
func (e Environment) AuxiliaryIndexPaths() []string {
	out := make([]string, len(e.auxPaths))
	copy(out, e.auxPaths)
	return out
}

// Vars renders the complete child environment. Unset tool variables are
// omitted rather than passed empty.
func (e Environment) Vars() []string {
	vars := []string{"PATH=" + e.searchPath}
	if e.rootOverride != "" {
		vars = append(vars, "GTAGSROOT="+e.rootOverride)
	}
	if len(e.auxPaths) > 0 {
		vars = append(vars, "GTAGSLIBPATH="+strings.Join(e.auxPaths, string(os.PathListSeparator)))
	}
	return vars
}
