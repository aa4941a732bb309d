// Package paths expands and normalizes user-supplied paths before they are
// handed to the tagging tools.
package paths

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
)

var (
	// unixVarRe matches $NAME and ${NAME}.
	unixVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

	// windowsVarRe matches %NAME%.
	windowsVarRe = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_()]*)%`)

	// lookupEnv is a variable so tests can supply a fixed environment.
	lookupEnv = os.LookupEnv

	// isWindows is a variable so tests can exercise %NAME% expansion anywhere.
	isWindows = runtime.GOOS == "windows"
)

// Expand expands a leading home-directory marker and embedded environment
// variable references, then returns the absolute, cleaned path.
//
// References to unset variables and malformed references are left verbatim.
// Expand never fails; if the path cannot be made absolute it is returned
// cleaned but relative.
//
// Go strings are UTF-8 and os/exec converts arguments to UTF-16 on Windows,
// so no extra byte encoding is applied for subprocess use.
func Expand(path string) string {
	if path == "" {
		return ""
	}

	expanded := ExpandVars(ExpandHome(path))

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return filepath.Clean(expanded)
	}
	return abs
}

// ExpandHome replaces a leading "~" with the user's home directory.
// "~user" forms are not supported and are returned unchanged.
func ExpandHome(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandVars substitutes $NAME, ${NAME} and, on Windows, %NAME% with values
// from the process environment. Unknown names are kept as written.
func ExpandVars(path string) string {
	if !strings.ContainsAny(path, "$%") {
		return path
	}

	path = unixVarRe.ReplaceAllStringFunc(path, func(ref string) string {
		m := unixVarRe.FindStringSubmatch(ref)
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if val, ok := lookupEnv(name); ok {
			return val
		}
		return ref
	})

	if isWindows {
		path = windowsVarRe.ReplaceAllStringFunc(path, func(ref string) string {
			name := strings.Trim(ref, "%")
			if val, ok := lookupEnv(name); ok {
				return val
			}
			return ref
		})
	}

	return path
}

// ExpandAll expands every path in order, dropping empty entries and
// duplicates while keeping the first occurrence.
func ExpandAll(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		expanded := Expand(p)
		if seen[expanded] {
			continue
		}
		seen[expanded] = true
		result = append(result, expanded)
	}
	return result
}

// Normalize cleans a path and converts forward slashes to the OS separator.
func Normalize(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// RelativeTo returns path relative to root with forward slashes when path
// lies inside root. The second return value is false for paths outside root.
func RelativeTo(path, root string) (string, bool) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path)), true
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
