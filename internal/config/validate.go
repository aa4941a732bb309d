package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyTool indicates a missing query or builder tool name
	ErrEmptyTool = errors.New("empty tool name")

	// ErrInvalidMarker indicates an unusable workspace marker filename
	ErrInvalidMarker = errors.New("invalid workspace marker")

	// ErrInvalidPattern indicates an exclude glob that does not compile
	ErrInvalidPattern = errors.New("invalid exclude pattern")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidInterval indicates a non-positive progress or debounce interval
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrInvalidLogging indicates an unknown log level or format
	ErrInvalidLogging = errors.New("invalid logging settings")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateTool(&cfg.Tool); err != nil {
		errs = append(errs, err)
	}
	if err := validateWorkspace(&cfg.Workspace); err != nil {
		errs = append(errs, err)
	}
	if err := validateResults(&cfg.Results); err != nil {
		errs = append(errs, err)
	}
	if err := validateCache(&cfg.Cache); err != nil {
		errs = append(errs, err)
	}
	if cfg.Progress.IntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: progress.interval_ms must be positive, got %d", ErrInvalidInterval, cfg.Progress.IntervalMs))
	}
	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce_ms cannot be negative, got %d", ErrInvalidInterval, cfg.Watch.DebounceMs))
	}
	if err := validateLogging(&cfg.Logging); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateTool(cfg *ToolConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Global) == "" {
		errs = append(errs, fmt.Errorf("%w: tool.global is required", ErrEmptyTool))
	}
	if strings.TrimSpace(cfg.Gtags) == "" {
		errs = append(errs, fmt.Errorf("%w: tool.gtags is required", ErrEmptyTool))
	}

	return joinErrors(errs)
}

func validateWorkspace(cfg *WorkspaceConfig) error {
	marker := strings.TrimSpace(cfg.Marker)
	if marker == "" {
		return fmt.Errorf("%w: workspace.marker is required", ErrInvalidMarker)
	}
	// The marker is looked up as a direct child of each candidate directory.
	if marker != filepath.Base(marker) || marker == "." || marker == ".." {
		return fmt.Errorf("%w: workspace.marker must be a plain filename, got '%s'", ErrInvalidMarker, cfg.Marker)
	}
	return nil
}

func validateResults(cfg *ResultsConfig) error {
	var errs []error

	for _, pattern := range cfg.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}

	return joinErrors(errs)
}

func validateCache(cfg *CacheConfig) error {
	var errs []error

	// Zero TTL is allowed and turns the cache off.
	if cfg.TTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("%w: ttl_seconds cannot be negative, got %d", ErrInvalidCacheSettings, cfg.TTLSeconds))
	}
	if cfg.MaxEntries < 0 {
		errs = append(errs, fmt.Errorf("%w: max_entries cannot be negative, got %d", ErrInvalidCacheSettings, cfg.MaxEntries))
	}

	return joinErrors(errs)
}

func validateLogging(cfg *LoggingConfig) error {
	var errs []error

	switch strings.ToLower(cfg.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: level must be debug, info, warn or error, got '%s'", ErrInvalidLogging, cfg.Level))
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: format must be 'text' or 'json', got '%s'", ErrInvalidLogging, cfg.Format))
	}

	return joinErrors(errs)
}

// validationErrors keeps every collected error reachable through errors.Is.
type validationErrors []error

func (v validationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (v validationErrors) Unwrap() []error { return v }

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}

	// Flatten nested groups so the message stays one list.
	var flat validationErrors
	for _, err := range errs {
		var group validationErrors
		if errors.As(err, &group) {
			flat = append(flat, group...)
			continue
		}
		flat = append(flat, err)
	}
	return flat
}
