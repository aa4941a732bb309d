// Package navigator ties workspace discovery, tag queries and jump history
// together into jump-to-definition and jump-back.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mvp-joe/tagnav/internal/config"
	"github.com/mvp-joe/tagnav/internal/history"
	"github.com/mvp-joe/tagnav/internal/logging"
	"github.com/mvp-joe/tagnav/internal/paths"
	"github.com/mvp-joe/tagnav/internal/process"
	"github.com/mvp-joe/tagnav/internal/tags"
	"github.com/mvp-joe/tagnav/internal/workspace"
)

// ErrWorkspaceNotFound means no directory above the start path holds a tag
// index.
var ErrWorkspaceNotFound = errors.New("tag index not found")

// Options configure a Navigator.
type Options struct {
	Config  *config.Config
	History *history.History
	Opener  Opener
	Runner  process.Runner
	Logger  *slog.Logger
}

// Navigator owns one tag client per workspace root.
type Navigator struct {
	cfg     *config.Config
	history *history.History
	opener  Opener
	runner  process.Runner
	locator *workspace.Locator
	logger  *slog.Logger

	mu      sync.Mutex
	clients map[string]*tags.Client
}

// New creates a navigator. Missing options get defaults: built-in config,
// a fresh history, a NopOpener and the os/exec runner.
func New(opts Options) *Navigator {
	n := &Navigator{
		cfg:     opts.Config,
		history: opts.History,
		opener:  opts.Opener,
		runner:  opts.Runner,
		logger:  opts.Logger,
		clients: make(map[string]*tags.Client),
	}
	if n.cfg == nil {
		n.cfg = config.Default()
	}
	if n.history == nil {
		n.history = history.New()
	}
	if n.opener == nil {
		n.opener = &NopOpener{}
	}
	if n.logger == nil {
		n.logger = logging.Nop()
	}
	if n.runner == nil {
		n.runner = process.NewRunner(n.logger)
	}
	n.locator = workspace.NewLocator(n.cfg.Workspace.Marker)
	return n
}

// History returns the shared jump history.
func (n *Navigator) History() *history.History { return n.history }

// ClientFor locates the workspace containing startPath, a file or a
// directory, and returns its client and root.
func (n *Navigator) ClientFor(startPath string) (*tags.Client, string, error) {
	start := paths.Expand(startPath)
	root, ok := n.locator.LocateFrom(start)
	if !ok {
		return nil, "", fmt.Errorf("%w: no %s above %s", ErrWorkspaceNotFound, n.locator.Marker(), start)
	}
	client, err := n.BindRoot(root)
	if err != nil {
		return nil, "", err
	}
	return client, root, nil
}

// BindRoot returns the client for root, creating it on first use. The root
// is used as given; no marker lookup happens.
func (n *Navigator) BindRoot(root string) (*tags.Client, error) {
	root = paths.Expand(root)

	n.mu.Lock()
	defer n.mu.Unlock()

	if c, ok := n.clients[root]; ok {
		return c, nil
	}

	filter, err := tags.NewFilter(root, n.cfg.Results.Exclude, n.cfg.Results.RespectGitignore)
	if err != nil {
		return nil, fmt.Errorf("failed to build result filter: %w", err)
	}

	client, err := tags.NewClient(tags.ClientOptions{
		Root:        root,
		Env:         tags.NewEnvironment(root, n.cfg.AuxiliaryIndexPaths()),
		Runner:      n.runner,
		QueryTool:   n.cfg.Tool.Global,
		BuilderTool: n.cfg.Tool.Gtags,
		BuilderArgs: n.cfg.Tool.BuilderArgs,
		Filter:      filter,
		Cache: tags.CacheConfig{
			TTL:        n.cfg.CacheTTL(),
			MaxEntries: n.cfg.Cache.MaxEntries,
		},
		Logger: n.logger.With("root", root),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tag client: %w", err)
	}

	n.logger.Debug("bound workspace", "root", root)
	n.clients[root] = client
	return client, nil
}

// Roots returns every bound root, sorted.
func (n *Navigator) Roots() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	roots := make([]string, 0, len(n.clients))
	for root := range n.clients {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

// Invalidate clears cached results for a bound root. Unknown roots are
// ignored.
func (n *Navigator) Invalidate(root string) {
	n.mu.Lock()
	c, ok := n.clients[paths.Expand(root)]
	n.mu.Unlock()
	if ok {
		c.Invalidate()
		n.logger.Debug("invalidated query cache", "root", root)
	}
}

// Close releases every client.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for root, c := range n.clients {
		c.Close()
		delete(n.clients, root)
	}
}

// Resolve runs a query against src. reference selects the reference index
// for raw queries.
func (n *Navigator) Resolve(ctx context.Context, src tags.TagSource, q tags.Query, reference bool) ([]tags.TagMatch, error) {
	return tags.Resolve(ctx, src, q, reference)
}

// NeedsSelection reports whether the caller has to choose among matches
// before jumping.
func (n *Navigator) NeedsSelection(matches []tags.TagMatch) bool {
	return len(matches) > 1
}

// Jump records from in the history and moves to the match. A from without
// a path is not recorded. Nothing is recorded when the match is invalid
// or the target cannot be opened.
func (n *Navigator) Jump(ctx context.Context, from history.Location, m tags.TagMatch) (history.Location, error) {
	row, err := m.Line()
	if err != nil {
		return history.Location{}, err
	}
	if m.Path == "" {
		return history.Location{}, errors.New("match has no path")
	}
	to := history.Location{Path: m.Path, Row: row, Column: 0}

	if err := n.open(ctx, to); err != nil {
		return history.Location{}, err
	}
	if !from.IsZero() {
		n.history.Push(from)
	}
	return to, nil
}

// JumpBack returns to the most recent recorded location.
// history.ErrEmpty is returned when there is none.
func (n *Navigator) JumpBack(ctx context.Context) (history.Location, error) {
	loc, err := n.history.Pop()
	if err != nil {
		return history.Location{}, err
	}
	if err := n.open(ctx, loc); err != nil {
		return history.Location{}, err
	}
	return loc, nil
}

// JumpForward undoes the most recent JumpBack.
func (n *Navigator) JumpForward(ctx context.Context) (history.Location, error) {
	loc, err := n.history.Forward()
	if err != nil {
		return history.Location{}, err
	}
	if err := n.open(ctx, loc); err != nil {
		return history.Location{}, err
	}
	return loc, nil
}

// open requests the file, waits until it is ready, then places the cursor.
func (n *Navigator) open(ctx context.Context, loc history.Location) error {
	h := n.opener.RequestOpen(loc.Path)
	select {
	case <-h.Ready():
	case <-ctx.Done():
		return fmt.Errorf("open %s: %w", loc.Path, ctx.Err())
	}
	if err := h.SetCursor(loc.Row, loc.Column); err != nil {
		return fmt.Errorf("set cursor in %s: %w", loc.Path, err)
	}
	n.logger.Debug("opened", "target", loc.Target())
	return nil
}
