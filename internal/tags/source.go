package tags

import (
	"context"
	"fmt"
)

// TagSource is the narrow query surface navigation depends on, so the
// GLOBAL flag set stays inside this package.
type TagSource interface {
	Completions(ctx context.Context, prefix string) ([]string, error)
	Definitions(ctx context.Context, symbol string) ([]TagMatch, error)
	References(ctx context.Context, symbol string) ([]TagMatch, error)
	Rebuild(ctx context.Context) error
}

var _ TagSource = (*Client)(nil)

// Definitions implements TagSource.
func (c *Client) Definitions(ctx context.Context, symbol string) ([]TagMatch, error) {
	return c.FindDefinitions(ctx, symbol)
}

// References implements TagSource.
func (c *Client) References(ctx context.Context, symbol string) ([]TagMatch, error) {
	return c.FindReferences(ctx, symbol)
}

// Resolve turns a Query into matches. Raw queries are sent to src as a
// definition or reference lookup; resolved matches are returned as is.
func Resolve(ctx context.Context, src TagSource, q Query, reference bool) ([]TagMatch, error) {
	switch q := q.(type) {
	case RawQuery:
		if reference {
			return src.References(ctx, string(q))
		}
		return src.Definitions(ctx, string(q))
	case ResolvedMatches:
		return []TagMatch(q), nil
	default:
		return nil, fmt.Errorf("unsupported query type %T", q)
	}
}
