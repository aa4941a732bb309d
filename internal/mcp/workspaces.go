package mcp

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mvp-joe/tagnav/internal/config"
	"github.com/mvp-joe/tagnav/internal/navigator"
	"github.com/mvp-joe/tagnav/internal/tags"
	"github.com/mvp-joe/tagnav/internal/watcher"
)

// Workspaces resolves the optional file argument of a tool call to a bound
// tag client and keeps one index watcher per bound root.
type Workspaces struct {
	nav     *navigator.Navigator
	workDir string
	cfg     *config.Config
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	watchers map[string]*watcher.IndexWatcher
	closed   bool
}

// NewWorkspaces creates a resolver. Calls without a file start at workDir.
func NewWorkspaces(nav *navigator.Navigator, workDir string, cfg *config.Config, logger *slog.Logger) *Workspaces {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Workspaces{
		nav:      nav,
		workDir:  workDir,
		cfg:      cfg,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		watchers: make(map[string]*watcher.IndexWatcher),
	}
}

// Navigator returns the shared navigator.
func (w *Workspaces) Navigator() *navigator.Navigator { return w.nav }

// ClientFor returns the client for the workspace containing file, or the
// working directory when file is empty.
func (w *Workspaces) ClientFor(file string) (*tags.Client, string, error) {
	start := file
	if start == "" {
		start = w.workDir
	}
	client, root, err := w.nav.ClientFor(start)
	if err != nil {
		return nil, "", err
	}
	if w.cfg.Watch.Enabled {
		w.watch(root)
	}
	return client, root, nil
}

// Watched returns the roots that have a running watcher.
func (w *Workspaces) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	roots := make([]string, 0, len(w.watchers))
	for root := range w.watchers {
		roots = append(roots, root)
	}
	return roots
}

// watch starts a watcher for root unless one is running. A watcher that
// cannot start is logged and skipped; queries still work without it.
func (w *Workspaces) watch(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if _, ok := w.watchers[root]; ok {
		return
	}

	iw, err := watcher.New(root, watcher.Options{
		Debounce: w.cfg.WatchDebounce(),
		Logger:   w.logger,
	})
	if err != nil {
		w.logger.Warn("index watcher unavailable", "root", root, "error", err)
		return
	}
	err = iw.Start(w.ctx, func(changed []string) {
		w.logger.Info("tag index changed, clearing cached results", "root", root, "files", changed)
		w.nav.Invalidate(root)
	})
	if err != nil {
		_ = iw.Stop()
		w.logger.Warn("index watcher unavailable", "root", root, "error", err)
		return
	}
	w.watchers[root] = iw
}

// Close stops every watcher.
func (w *Workspaces) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.cancel()

	var errs []error
	for root, iw := range w.watchers {
		if err := iw.Stop(); err != nil {
			errs = append(errs, err)
		}
		delete(w.watchers, root)
	}
	return errors.Join(errs...)
}
