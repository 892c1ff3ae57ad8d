package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/mcp"
	"github.com/KartikeyShuklaDev/HireSense-AI/internal/adapters/driving/watcher"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so interview agents can retrieve
textbook passages.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead. With --watch, the index is reloaded
whenever 'hiresense build' replaces the artifacts.

Examples:
  # Stdio mode (default)
  hiresense mcp serve

  # HTTP mode with hot reload
  hiresense mcp serve --port 8080 --watch

Client configuration:
  {
    "mcpServers": {
      "hiresense": {
        "command": "/path/to/hiresense",
        "args": ["mcp", "serve", "--watch"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("watch", false, "reload the index when the artifacts change")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	svc, err := connect(cmd, false)
	if err != nil {
		return err
	}

	var opts []mcp.ServerOption
	if watch && svc.DataDir != "" {
		opts = append(opts, mcp.WithWatcher(watcher.New(svc.DataDir, svc.ArtifactFiles, svc.Retrieval)))
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Retrieval:  svc.Retrieval,
		Interview:  svc.Interview,
		Evaluation: svc.Evaluation,
	}, opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
