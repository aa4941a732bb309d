package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tagnav/internal/mcp"
	"github.com/mvp-joe/tagnav/internal/navigator"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for tag navigation",
	Long: `Start the Model Context Protocol (MCP) server that lets coding assistants
query and navigate the tag index.

The MCP server:
- Resolves the workspace from each call's file argument (default: --file or
  the current directory)
- Provides tags_definitions, tags_references, tags_completions, tags_rebuild,
  tags_task_status, tags_jump and tags_jump_back
- Clears cached results when gtags rewrites the index
- Communicates via stdio (standard MCP transport)

Example:
  tagnav mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	opts := commandOptions(cmd)
	// Jump targets go back in tool results; stdout is the transport.
	opts.Opener = &navigator.NopOpener{}

	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	workDir := a.start
	if a.root != "" {
		workDir = a.root
	}

	server, err := mcp.NewServer(mcp.ServerOptions{
		Navigator: a.nav,
		Config:    a.cfg,
		Runner:    a.runner,
		Logger:    a.logger,
		WorkDir:   workDir,
		Version:   currentVersion(),
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
