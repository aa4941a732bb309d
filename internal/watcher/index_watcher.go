// Package watcher notices when the tag index of a workspace is rewritten.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// IndexFiles are the databases gtags writes at the workspace root.
var IndexFiles = []string{"GTAGS", "GRTAGS", "GPATH"}

// DefaultDebounce is the quiet period before the callback fires.
const DefaultDebounce = 250 * time.Millisecond

// IndexWatcher fires a callback after the index files under a root change.
type IndexWatcher struct {
	root     string
	files    map[string]bool
	debounce time.Duration
	logger   *slog.Logger

	watcher  *fsnotify.Watcher
	started  atomic.Bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	timerMu sync.Mutex
	timer   *time.Timer
	changed map[string]bool
}

// Options configure an IndexWatcher.
type Options struct {
	// Files defaults to IndexFiles.
	Files    []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// New creates a watcher for root. The root must be an existing directory.
func New(root string, opts Options) (*IndexWatcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}

	names := opts.Files
	if len(names) == 0 {
		names = IndexFiles
	}
	files := make(map[string]bool, len(names))
	for _, name := range names {
		files[filepath.Join(root, name)] = true
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &IndexWatcher{
		root:     root,
		files:    files,
		debounce: debounce,
		logger:   logger,
		watcher:  w,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		changed:  make(map[string]bool),
	}, nil
}

// Root returns the watched workspace root.
func (iw *IndexWatcher) Root() string { return iw.root }

// Start begins monitoring. callback receives the sorted base names of the
// index files that changed during the debounce window.
func (iw *IndexWatcher) Start(ctx context.Context, callback func(changed []string)) error {
	// Watch the root directory instead of the files themselves so a rebuild
	// that replaces the files is still seen.
	if err := iw.watcher.Add(iw.root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", iw.root, err)
	}

	iw.started.Store(true)
	go iw.watch(ctx, callback)
	return nil
}

// Stop stops the watcher and cleans up resources. Safe to call repeatedly.
func (iw *IndexWatcher) Stop() error {
	var err error
	iw.stopOnce.Do(func() {
		close(iw.stopCh)
		if iw.started.Load() {
			<-iw.doneCh
		}
		iw.stopTimer()
		err = iw.watcher.Close()
	})
	return err
}

func (iw *IndexWatcher) watch(ctx context.Context, callback func([]string)) {
	defer close(iw.doneCh)

	for {
		select {
		case <-ctx.Done():
			return

		case <-iw.stopCh:
			return

		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			if !iw.files[event.Name] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			iw.logger.Debug("index file changed", "file", event.Name, "op", event.Op.String())
			iw.record(ctx, filepath.Base(event.Name), callback)

		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			iw.logger.Warn("index watcher error", "root", iw.root, "error", err)
		}
	}
}

// record adds a changed file and restarts the debounce timer.
func (iw *IndexWatcher) record(ctx context.Context, name string, callback func([]string)) {
	iw.timerMu.Lock()
	defer iw.timerMu.Unlock()

	iw.changed[name] = true
	if iw.timer != nil {
		iw.timer.Stop()
	}
	iw.timer = time.AfterFunc(iw.debounce, func() {
		iw.fire(ctx, callback)
	})
}

func (iw *IndexWatcher) fire(ctx context.Context, callback func([]string)) {
	iw.timerMu.Lock()
	changed := make([]string, 0, len(iw.changed))
	for name := range iw.changed {
		changed = append(changed, name)
	}
	iw.changed = make(map[string]bool)
	iw.timer = nil
	iw.timerMu.Unlock()

	if len(changed) == 0 || ctx.Err() != nil {
		return
	}
	select {
	case <-iw.stopCh:
		return
	default:
	}
	sort.Strings(changed)

	defer func() {
		if r := recover(); r != nil {
			iw.logger.Warn("index watcher callback panic", "root", iw.root, "panic", r)
		}
	}()
	callback(changed)
}

func (iw *IndexWatcher) stopTimer() {
	iw.timerMu.Lock()
	defer iw.timerMu.Unlock()
	if iw.timer != nil {
		iw.timer.Stop()
		iw.timer = nil
	}
}
