package tags

import (
	"fmt"
	"time"

	"github.com/maypok86/otter"
)

// CacheConfig controls the query result cache. A zero TTL disables it.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// queryKind distinguishes cached result sets for the same argument.
type queryKind string

const (
	kindCompletion queryKind = "c"
	kindDefinition queryKind = "d"
	kindReference  queryKind = "r"
)

// resultCache holds parsed tool output keyed by query kind and argument.
type resultCache struct {
	symbols otter.Cache[string, []string]
	matches otter.Cache[string, []TagMatch]
}

func newResultCache(cfg CacheConfig) (*resultCache, error) {
	if cfg.TTL <= 0 {
		return nil, nil
	}
	capacity := cfg.MaxEntries
	if capacity <= 0 {
		capacity = 1024
	}

	symbols, err := otter.MustBuilder[string, []string](capacity).
		WithTTL(cfg.TTL).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build completion cache: %w", err)
	}
	matches, err := otter.MustBuilder[string, []TagMatch](capacity).
		WithTTL(cfg.TTL).
		Build()
	if err != nil {
		symbols.Close()
		return nil, fmt.Errorf("failed to build match cache: %w", err)
	}
	return &resultCache{symbols: symbols, matches: matches}, nil
}

func cacheKey(kind queryKind, arg string) string {
	return string(kind) + "\x00" + arg
}

func (c *resultCache) getSymbols(prefix string) ([]string, bool) {
	if c == nil {
		return nil, false
	}
	return c.symbols.Get(cacheKey(kindCompletion, prefix))
}

func (c *resultCache) setSymbols(prefix string, symbols []string) {
	if c == nil {
		return
	}
	c.symbols.Set(cacheKey(kindCompletion, prefix), symbols)
}

func (c *resultCache) getMatches(kind queryKind, symbol string) ([]TagMatch, bool) {
	if c == nil {
		return nil, false
	}
	return c.matches.Get(cacheKey(kind, symbol))
}

func (c *resultCache) setMatches(kind queryKind, symbol string, matches []TagMatch) {
	if c == nil {
		return
	}
	c.matches.Set(cacheKey(kind, symbol), matches)
}

func (c *resultCache) clear() {
	if c == nil {
		return
	}
	c.symbols.Clear()
	c.matches.Clear()
}

func (c *resultCache) close() {
	if c == nil {
		return
	}
	c.symbols.Close()
	c.matches.Close()
}
