package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/voyant/internal/cli"
	"github.com/aretw0/voyant/internal/config"
	"github.com/aretw0/voyant/internal/logging"
	"github.com/aretw0/voyant/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the travel tools over the Model Context Protocol",
	Long: `Serves flight search, hotel search and location resolution as MCP tools.
External agents call the tools directly; the conversation loop stays out of
the picture, so no Gemini key is needed.

Transports:
- stdio (default): JSON-RPC over standard input/output, for local hosts.
- sse: Server-Sent Events over HTTP, for remote agents and debugging.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		// Only the dispatcher is needed here, not the full agent, so a
		// missing GOOGLE_API_KEY does not block the tool server.
		logger := logging.New(slog.LevelDebug)
		dispatcher, err := cli.BuildDispatcher(cfg, logger)
		if err != nil {
			log.Fatalf("Error initializing tools: %v", err)
		}

		srv := mcp.NewServer(dispatcher, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Stdout carries JSON-RPC; logs must go elsewhere.
			log.SetOutput(os.Stderr)
			logger.Info("starting voyant MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			logger.Info("starting voyant MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
			logger.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("unknown transport %q, want stdio or sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "transport to serve on, stdio or sse")
	mcpCmd.Flags().Int("port", 8080, "listen port for the sse transport")
}
