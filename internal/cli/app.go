package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mvp-joe/tagnav/internal/config"
	"github.com/mvp-joe/tagnav/internal/history"
	"github.com/mvp-joe/tagnav/internal/logging"
	"github.com/mvp-joe/tagnav/internal/navigator"
	"github.com/mvp-joe/tagnav/internal/paths"
	"github.com/mvp-joe/tagnav/internal/process"
	"github.com/mvp-joe/tagnav/internal/tags"
	"github.com/mvp-joe/tagnav/internal/workspace"
)

// appOptions carry the global flags plus injectable collaborators for
// tests.
type appOptions struct {
	ConfigFile string
	Verbose    bool
	File       string
	Root       string

	Runner    process.Runner
	Opener    navigator.Opener // defaults to printing targets on Out
	Out       io.Writer
	LogOutput io.Writer
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	runner process.Runner
	nav    *navigator.Navigator

	start string
	root  string
}

func newApp(opts appOptions) (*app, error) {
	start, err := startLocation(opts.File)
	if err != nil {
		return nil, err
	}
	root := ""
	if opts.Root != "" {
		root = paths.Expand(opts.Root)
	}

	cfg, err := loadConfig(opts.ConfigFile, configDir(start, root))
	if err != nil {
		return nil, err
	}

	logCfg := logging.FromSettings("cli", cfg.Logging.Level, cfg.Logging.Format)
	if opts.Verbose {
		logCfg.Level = slog.LevelDebug
	}
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	logger := logging.New(logCfg)

	runner := opts.Runner
	if runner == nil {
		runner = process.NewRunner(logger)
	}
	opener := opts.Opener
	if opener == nil {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		opener = navigator.NewPrintOpener(out)
	}

	nav := navigator.New(navigator.Options{
		Config:  cfg,
		History: history.New(),
		Opener:  opener,
		Runner:  runner,
		Logger:  logger,
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		runner: runner,
		nav:    nav,
		start:  start,
		root:   root,
	}, nil
}

// client returns the client for --root, or for the workspace found above
// the start location.
func (a *app) client() (*tags.Client, string, error) {
	if a.root != "" {
		c, err := a.nav.BindRoot(a.root)
		if err != nil {
			return nil, "", err
		}
		return c, a.root, nil
	}
	return a.nav.ClientFor(a.start)
}

func (a *app) Close() {
	a.nav.Close()
}

func startLocation(file string) (string, error) {
	if file != "" {
		return paths.Expand(file), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// configDir picks the directory whose .tagnav holds project config: the
// explicit root, else the workspace above start, else start itself.
func configDir(start, root string) string {
	if root != "" {
		return root
	}
	if found, ok := workspace.NewLocator(workspace.DefaultMarker).LocateFrom(start); ok {
		return found
	}
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		return filepath.Dir(start)
	}
	return start
}

func loadConfig(file, dir string) (*config.Config, error) {
	var loader config.Loader
	if file != "" {
		loader = config.NewFileLoader(paths.Expand(file))
	} else {
		loader = config.NewLoader(dir)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
