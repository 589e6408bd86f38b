package main

import (
	"context"

	"github.com/spf13/cobra"

	"canonry/internal/logging"
	mcpserver "canonry/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveRegistry string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing schema inspection and
record standardization tools.

The server monitors for parent process death. When the host that spawned it
disconnects, the server self-terminates to prevent zombie processes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRegistry, "registry", "", "Extra registry YAML file merged over builtins")
}

func runServe(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry(serveRegistry)
	if err != nil {
		return err
	}
	srv := mcpserver.NewServer(reg)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting canonry MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
