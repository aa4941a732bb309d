// Package config loads tagnav settings.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Environment variables (TAGNAV_*)
//  2. Project config (<root>/.tagnav/config.yml)
//  3. User config (~/.tagnav/config.yml), read only when no project config exists
//  4. Built-in defaults
//
// Environment Variable Convention:
//   - Prefix: TAGNAV_
//   - Nested fields: Use underscores (TAGNAV_WORKSPACE_MARKER)
//   - Lists: comma separated (TAGNAV_RESULTS_EXCLUDE="vendor/**,**/*.pb.go")
package config

import (
	"time"

	"github.com/mvp-joe/tagnav/internal/paths"
)

// Config represents the complete tagnav configuration.
type Config struct {
	Tool      ToolConfig      `yaml:"tool" mapstructure:"tool"`
	Workspace WorkspaceConfig `yaml:"workspace" mapstructure:"workspace"`
	Results   ResultsConfig   `yaml:"results" mapstructure:"results"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Progress  ProgressConfig  `yaml:"progress" mapstructure:"progress"`
	Watch     WatchConfig     `yaml:"watch" mapstructure:"watch"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

// ToolConfig names the external tagging tools.
type ToolConfig struct {
	Global      string   `yaml:"global" mapstructure:"global"`             // query tool
	Gtags       string   `yaml:"gtags" mapstructure:"gtags"`               // index builder
	BuilderArgs []string `yaml:"builder_args" mapstructure:"builder_args"` // flags passed on rebuild
}

// WorkspaceConfig controls root discovery and the tool environment.
type WorkspaceConfig struct {
	Marker        string   `yaml:"marker" mapstructure:"marker"`                   // file that marks a workspace root
	ExtraTagPaths []string `yaml:"extra_tag_paths" mapstructure:"extra_tag_paths"` // auxiliary index roots (GTAGSLIBPATH)
}

// ResultsConfig filters query results.
type ResultsConfig struct {
	Exclude          []string `yaml:"exclude" mapstructure:"exclude"`                     // glob patterns, root-relative
	RespectGitignore bool     `yaml:"respect_gitignore" mapstructure:"respect_gitignore"` // drop matches ignored by <root>/.gitignore
}

// CacheConfig controls the per-workspace query cache.
type CacheConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	TTLSeconds int  `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
	MaxEntries int  `yaml:"max_entries" mapstructure:"max_entries"`
}

// ProgressConfig controls the background task indicator.
type ProgressConfig struct {
	IntervalMs int `yaml:"interval_ms" mapstructure:"interval_ms"`
}

// WatchConfig controls index file watching.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	DebounceMs int  `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Tool: ToolConfig{
			Global:      "global",
			Gtags:       "gtags",
			BuilderArgs: []string{"-v"},
		},
		Workspace: WorkspaceConfig{
			Marker:        "GTAGS",
			ExtraTagPaths: []string{},
		},
		Results: ResultsConfig{
			Exclude:          []string{},
			RespectGitignore: false,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 300,
			MaxEntries: 1024,
		},
		Progress: ProgressConfig{
			IntervalMs: 100,
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 250,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// AuxiliaryIndexPaths returns the extra tag paths with "~" and environment
// variables expanded, empty entries and duplicates removed.
func (c *Config) AuxiliaryIndexPaths() []string {
	return paths.ExpandAll(c.Workspace.ExtraTagPaths)
}

// CacheTTL returns the query cache lifetime, zero when caching is off.
func (c *Config) CacheTTL() time.Duration {
	if !c.Cache.Enabled {
		return 0
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// ProgressInterval returns the indicator cadence.
func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Progress.IntervalMs) * time.Millisecond
}

// WatchDebounce returns the delay used to coalesce index file events.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}
