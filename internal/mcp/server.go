package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tagnav/internal/config"
	"github.com/mvp-joe/tagnav/internal/logging"
	"github.com/mvp-joe/tagnav/internal/navigator"
	"github.com/mvp-joe/tagnav/internal/process"
)

// ServerName is advertised to MCP clients.
const ServerName = "tagnav"

// ServerOptions configure a Server.
type ServerOptions struct {
	Navigator *navigator.Navigator
	Config    *config.Config
	Runner    process.Runner
	Logger    *slog.Logger

	// WorkDir is the start location for tools called without a file
	// argument.
	WorkDir string
	Version string
}

// Server exposes tag navigation as MCP tools over stdio.
type Server struct {
	workspaces *Workspaces
	tasks      *TaskRegistry
	logger     *slog.Logger
	mcp        *server.MCPServer
}

// NewServer creates the MCP server and registers every tag tool.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Navigator == nil {
		return nil, fmt.Errorf("navigator is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default("mcp")
	}
	runner := opts.Runner
	if runner == nil {
		runner = process.NewRunner(logger)
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}

	ws := NewWorkspaces(opts.Navigator, workDir, cfg, logger)
	tasks := NewTaskRegistry(runner, cfg.ProgressInterval(), logger)

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	AddCompletionsTool(mcpServer, ws)
	AddDefinitionsTool(mcpServer, ws)
	AddReferencesTool(mcpServer, ws)
	AddRebuildTool(mcpServer, ws, tasks)
	AddTaskStatusTool(mcpServer, tasks)
	AddJumpTool(mcpServer, ws)
	AddJumpBackTool(mcpServer, ws)

	return &Server{
		workspaces: ws,
		tasks:      tasks,
		logger:     logger,
		mcp:        mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the index watchers. Running rebuilds are left to finish.
func (s *Server) Close() error {
	return s.workspaces.Close()
}
