package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/mcp"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can score
pages and videos against your goal and read the focus session.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools:
  analyze_page  - score a page (URL or text) against the goal
  score_video   - score a video from its card metadata
  focus_status  - read the focus session

Resources:
  focuscoach://session
  focuscoach://history

Examples:
  # Stdio mode (default, for desktop assistants)
  focuscoach mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  focuscoach mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "focuscoach": {
        "command": "/path/to/focuscoach",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Analyzer: analyzerService,
		Videos:   videoScorer,
		Session:  sessionService,
		History:  historyService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	// The session follows the shared state file while the server runs.
	ctx := cmd.Context()
	go func() {
		if err := sessionService.Run(ctx); err != nil {
			logger.Warn("session: %v", err)
		}
	}()

	if port > 0 {
		cmd.Printf("MCP server listening on http://127.0.0.1:%d\n", port)
		return server.RunHTTP(ctx, port)
	}

	return server.Run(ctx)
}
