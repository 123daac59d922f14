package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/questflow/internal/cli"
	"github.com/aretw0/questflow/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [flow]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the flow to AI agents as MCP tools (get_flow, progress, validate,
prune, summary) and the flow document as a resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		// Logs go to Stderr so they never corrupt JSON-RPC on Stdout.
		logger, err := cli.NewLogger(opts)
		if err != nil {
			return err
		}

		eng, err := cli.NewEngine(opts, logger)
		if err != nil {
			return err
		}
		if _, err := eng.Flow(cmd.Context()); err != nil {
			return err
		}

		srv := mcp.NewServer(eng, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("Starting questflow MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()
			return srv.ServeSSE(sigCtx, addr)
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
}
