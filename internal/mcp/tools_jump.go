package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tagnav/internal/history"
	mcputils "github.com/mvp-joe/tagnav/internal/mcp-utils"
	"github.com/mvp-joe/tagnav/internal/tags"
)

// JumpResponse is returned by tags_jump and tags_jump_back. When several
// matches exist and no index was given, NeedsSelection is set and Matches
// lists the candidates; nothing is recorded in that case.
type JumpResponse struct {
	Target         string  `json:"target,omitempty"`
	Path           string  `json:"path,omitempty"`
	Row            int     `json:"row,omitempty"`
	Column         int     `json:"column"`
	NeedsSelection bool    `json:"needs_selection,omitempty"`
	Matches        []Match `json:"matches,omitempty"`
	HistoryDepth   int     `json:"history_depth"`
}

type jumpRequest struct {
	Symbol    string `json:"symbol"`
	Reference bool   `json:"reference"`
	Index     *int   `json:"index"`
	From      string `json:"from"`
	File      string `json:"file"`
}

type jumpBackRequest struct {
	Forward bool `json:"forward"`
}

// AddJumpTool registers tags_jump.
func AddJumpTool(s *server.MCPServer, ws *Workspaces) {
	tool := mcp.NewTool(
		"tags_jump",
		mcp.WithDescription("Jump to a symbol's definition (or a reference). Records the current location so tags_jump_back can return to it. With several matches and no index, returns the candidates instead of jumping."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Exact symbol name")),
		mcp.WithBoolean("reference",
			mcp.Description("Jump to a reference instead of the definition (default: false)")),
		mcp.WithNumber("index",
			mcp.Description("0-based index of the match to jump to when there are several")),
		mcp.WithString("from",
			mcp.Description("Current location as 'path:row:column'. Recorded in the jump history.")),
		mcp.WithString("file",
			mcp.Description(fileDescription+" Defaults to the path in 'from' when given.")),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createJumpHandler(ws))
}

func createJumpHandler(ws *Workspaces) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args jumpRequest
		if err := mcputils.BindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if args.Symbol == "" {
			return mcp.NewToolResultError("symbol parameter is required"), nil
		}

		var from history.Location
		if args.From != "" {
			loc, err := history.ParseTarget(args.From)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid from: %v", err)), nil
			}
			from = loc
		}
		start := args.File
		if start == "" {
			start = from.Path
		}

		client, _, err := ws.ClientFor(start)
		if err != nil {
			return toolError(err)
		}
		nav := ws.Navigator()
		matches, err := nav.Resolve(ctx, client, tags.RawQuery(args.Symbol), args.Reference)
		if err != nil {
			return toolError(err)
		}
		if len(matches) == 0 {
			return mcp.NewToolResultError(notFoundMessage(args.Symbol, args.Reference)), nil
		}

		idx := 0
		if args.Index != nil {
			idx = *args.Index
			if idx < 0 || idx >= len(matches) {
				return mcp.NewToolResultError(fmt.Sprintf("index %d out of range: %d matches", idx, len(matches))), nil
			}
		} else if nav.NeedsSelection(matches) {
			return jsonResult(&JumpResponse{
				NeedsSelection: true,
				Matches:        toMatches(matches),
				HistoryDepth:   nav.History().Len(),
			})
		}

		to, err := nav.Jump(ctx, from, matches[idx])
		if err != nil {
			return toolError(err)
		}
		return jsonResult(locationResponse(to, nav.History().Len()))
	}
}

// AddJumpBackTool registers tags_jump_back.
func AddJumpBackTool(s *server.MCPServer, ws *Workspaces) {
	tool := mcp.NewTool(
		"tags_jump_back",
		mcp.WithDescription("Return to the location recorded by the most recent tags_jump."),
		mcp.WithBoolean("forward",
			mcp.Description("Undo the last jump back instead (default: false)")),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createJumpBackHandler(ws))
}

func createJumpBackHandler(ws *Workspaces) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args jumpBackRequest
		if err := mcputils.BindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		nav := ws.Navigator()
		var (
			loc history.Location
			err error
		)
		if args.Forward {
			loc, err = nav.JumpForward(ctx)
		} else {
			loc, err = nav.JumpBack(ctx)
		}
		if err != nil {
			return toolError(err)
		}
		return jsonResult(locationResponse(loc, nav.History().Len()))
	}
}

func locationResponse(loc history.Location, depth int) *JumpResponse {
	return &JumpResponse{
		Target:       loc.Target(),
		Path:         loc.Path,
		Row:          loc.Row,
		Column:       loc.Column,
		HistoryDepth: depth,
	}
}
