package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tagnav/internal/history"
	mcputils "github.com/mvp-joe/tagnav/internal/mcp-utils"
	"github.com/mvp-joe/tagnav/internal/navigator"
	"github.com/mvp-joe/tagnav/internal/tags"
)

// Match is the JSON view of a tags.TagMatch.
type Match struct {
	Symbol    string `json:"symbol"`
	Line      string `json:"line"`
	Path      string `json:"path"`
	Signature string `json:"signature"`
	Target    string `json:"target"`
}

// QueryResponse is returned by tags_definitions and tags_references.
type QueryResponse struct {
	Root    string  `json:"root"`
	Symbol  string  `json:"symbol"`
	Kind    string  `json:"kind"`
	Matches []Match `json:"matches"`
	Total   int     `json:"total"`
	Message string  `json:"message,omitempty"`
}

// CompletionsResponse is returned by tags_completions.
type CompletionsResponse struct {
	Root    string   `json:"root"`
	Prefix  string   `json:"prefix"`
	Symbols []string `json:"symbols"`
	Total   int      `json:"total"`
}

// RebuildResponse is returned by tags_rebuild.
type RebuildResponse struct {
	TaskID  string `json:"task_id"`
	Root    string `json:"root"`
	State   string `json:"state"`
	Message string `json:"message"`
}

type completionsRequest struct {
	Prefix string `json:"prefix"`
	File   string `json:"file"`
}

type symbolRequest struct {
	Symbol string `json:"symbol"`
	File   string `json:"file"`
}

type rebuildRequest struct {
	File string `json:"file"`
}

type taskStatusRequest struct {
	TaskID string `json:"task_id"`
	Wait   bool   `json:"wait"`
}

const fileDescription = "Any file or directory inside the workspace. Defaults to the server's working directory."

// AddCompletionsTool registers tags_completions.
func AddCompletionsTool(s *server.MCPServer, ws *Workspaces) {
	tool := mcp.NewTool(
		"tags_completions",
		mcp.WithDescription("List symbol names in the tag index that start with a prefix. An empty prefix lists every symbol."),
		mcp.WithString("prefix",
			mcp.Description("Symbol prefix (e.g. 'parse_'). Optional.")),
		mcp.WithString("file",
			mcp.Description(fileDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createCompletionsHandler(ws))
}

func createCompletionsHandler(ws *Workspaces) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args completionsRequest
		if err := mcputils.BindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, root, err := ws.ClientFor(args.File)
		if err != nil {
			return toolError(err)
		}
		symbols, err := client.Completions(ctx, args.Prefix)
		if err != nil {
			return toolError(err)
		}

		return jsonResult(&CompletionsResponse{
			Root:    root,
			Prefix:  args.Prefix,
			Symbols: symbols,
			Total:   len(symbols),
		})
	}
}

// AddDefinitionsTool registers tags_definitions.
func AddDefinitionsTool(s *server.MCPServer, ws *Workspaces) {
	tool := mcp.NewTool(
		"tags_definitions",
		mcp.WithDescription("Find where a symbol is defined. Includes auxiliary tag indexes configured for the workspace."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Exact symbol name (e.g. 'main', 'http_parse')")),
		mcp.WithString("file",
			mcp.Description(fileDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createQueryHandler(ws, false))
}

// AddReferencesTool registers tags_references.
func AddReferencesTool(s *server.MCPServer, ws *Workspaces) {
	tool := mcp.NewTool(
		"tags_references",
		mcp.WithDescription("Find every place a symbol is referenced."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Exact symbol name")),
		mcp.WithString("file",
			mcp.Description(fileDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createQueryHandler(ws, true))
}

func createQueryHandler(ws *Workspaces, reference bool) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args symbolRequest
		if err := mcputils.BindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if args.Symbol == "" {
			return mcp.NewToolResultError("symbol parameter is required"), nil
		}

		client, root, err := ws.ClientFor(args.File)
		if err != nil {
			return toolError(err)
		}
		matches, err := ws.Navigator().Resolve(ctx, client, tags.RawQuery(args.Symbol), reference)
		if err != nil {
			return toolError(err)
		}

		resp := &QueryResponse{
			Root:    root,
			Symbol:  args.Symbol,
			Kind:    queryKind(reference),
			Matches: toMatches(matches),
			Total:   len(matches),
		}
		if len(matches) == 0 {
			resp.Message = notFoundMessage(args.Symbol, reference)
		}
		return jsonResult(resp)
	}
}

// AddRebuildTool registers tags_rebuild.
func AddRebuildTool(s *server.MCPServer, ws *Workspaces, tasks *TaskRegistry) {
	tool := mcp.NewTool(
		"tags_rebuild",
		mcp.WithDescription("Regenerate the tag index for the workspace in the background. Returns a task id; poll it with tags_task_status."),
		mcp.WithString("file",
			mcp.Description(fileDescription)),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createRebuildHandler(ws, tasks))
}

func createRebuildHandler(ws *Workspaces, tasks *TaskRegistry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args rebuildRequest
		if err := mcputils.BindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		client, root, err := ws.ClientFor(args.File)
		if err != nil {
			return toolError(err)
		}
		t, err := tasks.StartRebuild(client)
		if err != nil {
			return nil, err
		}

		return jsonResult(&RebuildResponse{
			TaskID:  t.ID(),
			Root:    root,
			State:   string(t.State()),
			Message: "rebuild tags on dir: " + root,
		})
	}
}

// AddTaskStatusTool registers tags_task_status.
func AddTaskStatusTool(s *server.MCPServer, tasks *TaskRegistry) {
	tool := mcp.NewTool(
		"tags_task_status",
		mcp.WithDescription("Report the state of a background task started by tags_rebuild."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Task id returned by tags_rebuild")),
		mcp.WithBoolean("wait",
			mcp.Description("Block until the task finishes (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createTaskStatusHandler(tasks))
}

func createTaskStatusHandler(tasks *TaskRegistry) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args taskStatusRequest
		if err := mcputils.BindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if args.TaskID == "" {
			return mcp.NewToolResultError("task_id parameter is required"), nil
		}

		t, ok := tasks.Get(args.TaskID)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown task: %s", args.TaskID)), nil
		}
		if args.Wait {
			if _, err := t.Wait(ctx); err != nil {
				return nil, err
			}
		}

		status, _ := tasks.Status(args.TaskID)
		return jsonResult(&status)
	}
}

// toolError turns errors the caller can act on into tool error results.
// Anything else is a server failure.
func toolError(err error) (*mcp.CallToolResult, error) {
	var rebuildErr *tags.RebuildError
	switch {
	case errors.Is(err, navigator.ErrWorkspaceNotFound),
		errors.Is(err, tags.ErrEmptySymbol),
		errors.Is(err, tags.ErrToolUnavailable),
		errors.Is(err, history.ErrEmpty),
		errors.As(err, &rebuildErr):
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func toMatches(matches []tags.TagMatch) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		out = append(out, Match{
			Symbol:    m.Symbol,
			Line:      m.LineNumber,
			Path:      m.Path,
			Signature: m.Signature,
			Target:    m.Target(),
		})
	}
	return out
}

func queryKind(reference bool) string {
	if reference {
		return "references"
	}
	return "definitions"
}

func notFoundMessage(symbol string, reference bool) string {
	if reference {
		return fmt.Sprintf("'%s' is not found on rtag.", symbol)
	}
	return fmt.Sprintf("'%s' is not found on tag.", symbol)
}
