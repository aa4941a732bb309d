// Package tags queries a GNU GLOBAL tag index through its command-line
// tools and parses the results.
package tags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mvp-joe/tagnav/internal/process"
)

const (
	DefaultQueryTool   = "global"
	DefaultBuilderTool = "gtags"
)

// DefaultBuilderArgs are passed to the builder tool on rebuild.
var DefaultBuilderArgs = []string{"-v"}

var (
	// ErrEmptySymbol is returned for definition and reference queries
	// without a symbol.
	ErrEmptySymbol = errors.New("symbol must not be empty")

	// ErrToolUnavailable means the query or builder tool could not be run.
	ErrToolUnavailable = errors.New("tagging tool unavailable")
)

// RebuildError reports a builder run that exited non-zero.
type RebuildError struct {
	ExitCode int
	Stderr   string
}

func (e *RebuildError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("tag rebuild failed with exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("tag rebuild failed with exit code %d: %s", e.ExitCode, msg)
}

// ClientOptions configure a Client.
type ClientOptions struct {
	// Root is the workspace root; rebuilds run there.
	Root string

	// Env is the tool environment bound to Root.
	Env Environment

	// Runner executes the tools. Required.
	Runner process.Runner

	QueryTool   string
	BuilderTool string
	BuilderArgs []string

	// Filter drops matches in excluded files. Optional.
	Filter *Filter

	Cache  CacheConfig
	Logger *slog.Logger
}

// Client issues queries against one workspace. It never rebinds to
// another root.
type Client struct {
	root        string
	env         Environment
	runner      process.Runner
	queryTool   string
	builderTool string
	builderArgs []string
	filter      *Filter
	cache       *resultCache
	logger      *slog.Logger
}

// NewClient validates the options and applies tool defaults.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Runner == nil {
		return nil, errors.New("runner is required")
	}
	if opts.Root == "" {
		return nil, errors.New("workspace root is required")
	}

	c := &Client{
		root:        opts.Root,
		env:         opts.Env,
		runner:      opts.Runner,
		queryTool:   opts.QueryTool,
		builderTool: opts.BuilderTool,
		filter:      opts.Filter,
		logger:      opts.Logger,
	}
	if c.queryTool == "" {
		c.queryTool = DefaultQueryTool
	}
	if c.builderTool == "" {
		c.builderTool = DefaultBuilderTool
	}
	if opts.BuilderArgs == nil {
		c.builderArgs = append([]string{}, DefaultBuilderArgs...)
	} else {
		c.builderArgs = append([]string{}, opts.BuilderArgs...)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}

	cache, err := newResultCache(opts.Cache)
	if err != nil {
		return nil, err
	}
	c.cache = cache

	return c, nil
}

// Root returns the workspace root the client is bound to.
func (c *Client) Root() string { return c.root }

// Environment returns the tool environment the client is bound to.
func (c *Client) Environment() Environment { return c.env }

// Completions lists symbols starting with prefix. An empty prefix lists
// every symbol in the index.
func (c *Client) Completions(ctx context.Context, prefix string) ([]string, error) {
	if cached, ok := c.cache.getSymbols(prefix); ok {
		return append([]string{}, cached...), nil
	}

	args := []string{"-c"}
	if prefix != "" {
		args = append(args, prefix)
	}

	res, err := c.run(ctx, c.queryCommand(args...))
	if err != nil {
		return nil, err
	}
	if !res.Success {
		c.logger.Debug("completion query exited non-zero",
			"prefix", prefix, "exit_code", res.ExitCode, "stderr", res.ErrorOutput)
	}

	symbols := parseSymbols(res.Output)
	c.cache.setSymbols(prefix, symbols)
	return append([]string{}, symbols...), nil
}

// FindDefinitions returns the definition sites of symbol in tool order.
func (c *Client) FindDefinitions(ctx context.Context, symbol string) ([]TagMatch, error) {
	return c.findMatches(ctx, kindDefinition, symbol, "-a", "-x", symbol)
}

// FindReferences returns the reference sites of symbol in tool order.
func (c *Client) FindReferences(ctx context.Context, symbol string) ([]TagMatch, error) {
	return c.findMatches(ctx, kindReference, symbol, "-a", "-x", "-r", symbol)
}

// RebuildCommand returns the builder invocation so it can be run
// asynchronously.
func (c *Client) RebuildCommand() process.Command {
	return process.Command{
		Name: c.builderTool,
		Args: append([]string{}, c.builderArgs...),
		Dir:  c.root,
		Env:  c.env.Vars(),
	}
}

// Rebuild regenerates the tag index for the root and clears cached
// results on success.
func (c *Client) Rebuild(ctx context.Context) error {
	res, err := c.runner.Run(ctx, c.RebuildCommand())
	return c.CompleteRebuild(res, err)
}

// CompleteRebuild interprets the result of a builder run started through
// RebuildCommand. runErr is the runner's start error; it is reported as
// ErrToolUnavailable.
func (c *Client) CompleteRebuild(res process.Result, runErr error) error {
	if runErr != nil {
		c.logger.Warn("tag rebuild could not start", "root", c.root, "error", runErr)
		return fmt.Errorf("%w: %w", ErrToolUnavailable, runErr)
	}
	if !res.Success {
		c.logger.Warn("tag rebuild failed", "root", c.root, "exit_code", res.ExitCode)
		return &RebuildError{ExitCode: res.ExitCode, Stderr: res.ErrorOutput}
	}
	c.Invalidate()
	c.logger.Info("tag rebuild finished", "root", c.root)
	return nil
}

// Invalidate drops every cached query result.
func (c *Client) Invalidate() {
	c.cache.clear()
}

// Close releases the cache.
func (c *Client) Close() {
	c.cache.close()
}

func (c *Client) findMatches(ctx context.Context, kind queryKind, symbol string, args ...string) ([]TagMatch, error) {
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	if cached, ok := c.cache.getMatches(kind, symbol); ok {
		return append([]TagMatch{}, cached...), nil
	}

	res, err := c.run(ctx, c.queryCommand(args...))
	if err != nil {
		return nil, err
	}
	if !res.Success {
		// Not found is reported by the tool as a non-zero exit.
		c.logger.Debug("query exited non-zero",
			"symbol", symbol, "exit_code", res.ExitCode, "stderr", res.ErrorOutput)
	}

	matches := c.validMatches(ParseRecords(res.Output))
	matches = c.filter.Apply(matches)

	c.cache.setMatches(kind, symbol, matches)
	return append([]TagMatch{}, matches...), nil
}

// validMatches drops records whose line number is not a positive integer.
func (c *Client) validMatches(records []TagMatch) []TagMatch {
	kept := make([]TagMatch, 0, len(records))
	for _, m := range records {
		if _, err := m.Line(); err != nil {
			c.logger.Debug("skipping record", "record", m, "error", err)
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

func (c *Client) queryCommand(args ...string) process.Command {
	return process.Command{
		Name: c.queryTool,
		Args: args,
		Dir:  c.root,
		Env:  c.env.Vars(),
	}
}

func (c *Client) run(ctx context.Context, cmd process.Command) (process.Result, error) {
	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return process.Result{}, fmt.Errorf("%w: %w", ErrToolUnavailable, err)
	}
	return res, nil
}
