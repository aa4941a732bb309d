package tags

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/mvp-joe/tagnav/internal/paths"
)

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Filter drops matches in excluded files. Paths are compared relative to
// the workspace root with forward slashes.
type Filter struct {
	root      string
	excludes  []compiledPattern
	gitignore *ignore.GitIgnore
}

// NewFilter compiles the exclude globs. When respectGitignore is set the
// root .gitignore is loaded too; a missing .gitignore is not an error.
func NewFilter(root string, excludeGlobs []string, respectGitignore bool) (*Filter, error) {
	f := &Filter{root: root}

	for _, pattern := range excludeGlobs {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.excludes = append(f.excludes, compiledPattern{pattern: pattern, glob: g})
	}

	if respectGitignore {
		path := filepath.Join(root, ".gitignore")
		gi, err := ignore.CompileIgnoreFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		f.gitignore = gi
	}

	return f, nil
}

// Empty reports whether the filter keeps everything.
func (f *Filter) Empty() bool {
	return f == nil || (len(f.excludes) == 0 && f.gitignore == nil)
}

// Excluded reports whether a match path should be dropped.
// Paths outside the root are only tested against the exclude globs.
func (f *Filter) Excluded(path string) bool {
	if f.Empty() {
		return false
	}

	rel, inside := paths.RelativeTo(path, f.root)
	if !inside {
		rel = filepath.ToSlash(path)
	}

	if f.matchesAny(rel) {
		return true
	}
	return inside && f.gitignore != nil && f.gitignore.MatchesPath(rel)
}

// Apply returns the matches that are not excluded, in their original order.
func (f *Filter) Apply(matches []TagMatch) []TagMatch {
	if f.Empty() {
		return matches
	}
	kept := make([]TagMatch, 0, len(matches))
	for _, m := range matches {
		if !f.Excluded(m.Path) {
			kept = append(kept, m)
		}
	}
	return kept
}

func (f *Filter) matchesAny(path string) bool {
	for _, cp := range f.excludes {
		if cp.glob.Match(path) {
			return true
		}
	}

	// "**/*.pb.go" should also match a file at the root.
	if !strings.Contains(path, "/") {
		for _, cp := range f.excludes {
			if !strings.HasPrefix(cp.pattern, "**/") {
				continue
			}
			if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}
	return false
}
