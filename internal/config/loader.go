package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// DirName is the per-project and per-user configuration directory.
const DirName = ".tagnav"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	homeDir    string
	configFile string
}

// NewLoader creates a loader that searches rootDir/.tagnav and then
// ~/.tagnav for config.yml.
func NewLoader(rootDir string) Loader {
	home, err := homedir.Dir()
	if err != nil {
		home = ""
	}
	return &loader{rootDir: rootDir, homeDir: home}
}

// NewFileLoader loads an explicit config file. A missing file is an error.
func NewFileLoader(path string) Loader {
	return &loader{configFile: path}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (TAGNAV_*)
// 2. Config file (.tagnav/config.yml or .tagnav/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if l.rootDir != "" {
			v.AddConfigPath(filepath.Join(l.rootDir, DirName))
		}
		if l.homeDir != "" {
			v.AddConfigPath(filepath.Join(l.homeDir, DirName))
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("TAGNAV")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., TAGNAV_TOOL_GLOBAL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnvVars binds every scalar and list key to its TAGNAV_ variable.
func bindEnvVars(v *viper.Viper) {
	for _, key := range []string{
		"tool.global",
		"tool.gtags",
		"tool.builder_args",
		"workspace.marker",
		"workspace.extra_tag_paths",
		"results.exclude",
		"results.respect_gitignore",
		"cache.enabled",
		"cache.ttl_seconds",
		"cache.max_entries",
		"progress.interval_ms",
		"watch.enabled",
		"watch.debounce_ms",
		"logging.level",
		"logging.format",
	} {
		_ = v.BindEnv(key)
	}
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("tool.global", defaults.Tool.Global)
	v.SetDefault("tool.gtags", defaults.Tool.Gtags)
	v.SetDefault("tool.builder_args", defaults.Tool.BuilderArgs)

	v.SetDefault("workspace.marker", defaults.Workspace.Marker)
	v.SetDefault("workspace.extra_tag_paths", defaults.Workspace.ExtraTagPaths)

	v.SetDefault("results.exclude", defaults.Results.Exclude)
	v.SetDefault("results.respect_gitignore", defaults.Results.RespectGitignore)

	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl_seconds", defaults.Cache.TTLSeconds)
	v.SetDefault("cache.max_entries", defaults.Cache.MaxEntries)

	v.SetDefault("progress.interval_ms", defaults.Progress.IntervalMs)

	v.SetDefault("watch.enabled", defaults.Watch.Enabled)
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
}
