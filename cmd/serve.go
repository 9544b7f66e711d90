package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing browser-cli tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes browser sessions
as tools. Agents call open_session to start a browser, pass the returned id
to the action tools, and close_session when done.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  browser-cli serve
  browser-cli serve --transport streamable-http --port 8080
  browser-cli serve --idle-ttl 0`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("idle-ttl", 600, "Close sessions idle for this many seconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	idleTTL, _ := cmd.Flags().GetInt("idle-ttl")

	cfg := server.Config{
		Transport:     transport,
		Port:          port,
		Backend:       settings.Backend,
		Browser:       browserOptions(settings),
		ScreenshotDir: settings.ScreenshotDir,
		IdleTTL:       time.Duration(idleTTL) * time.Second,
	}
	srv := server.New(cfg,
		server.WithRuntime(config.Default()),
		server.WithLogger(logger.Named("mcp")),
		server.WithOpener(func(backend string, opts browser.Options) (browser.Driver, error) {
			return openDriver(backend)
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
