// Package server exposes browser sessions as Model Context Protocol tools.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mj1618/browser-cli/internal/browser"
	"github.com/mj1618/browser-cli/internal/config"
	"github.com/mj1618/browser-cli/internal/logging"
	"github.com/mj1618/browser-cli/internal/screenshot"
	"github.com/mj1618/browser-cli/internal/session"
	"github.com/mj1618/browser-cli/internal/steps"
	"github.com/mj1618/browser-cli/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport     string
	Port          int
	Backend       string
	Browser       browser.Options
	ScreenshotDir string
	IdleTTL       time.Duration // close sessions unused for this long; 0 disables
}

// OpenFunc starts a browser for a new session.
type OpenFunc func(backend string, opts browser.Options) (browser.Driver, error)

// Server wraps the MCP server with the open browser sessions.
type Server struct {
	cfg      Config
	runtime  *config.Runtime
	log      *logging.Logger
	open     OpenFunc
	sessions *Registry
	mcp      *mcpserver.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithOpener replaces browser.Open, mainly for tests.
func WithOpener(open OpenFunc) Option {
	return func(s *Server) { s.open = open }
}

// WithRuntime shares r between every session instead of config.Default().
func WithRuntime(r *config.Runtime) Option {
	return func(s *Server) { s.runtime = r }
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates and configures an MCP server with all browser-cli tools.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:  cfg,
		open: browser.Open,
	}
	for _, o := range opts {
		o(s)
	}
	if s.runtime == nil {
		s.runtime = config.Default()
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	s.sessions = NewRegistry(cfg.IdleTTL, s.log)
	s.mcp = mcpserver.NewMCPServer("browser-cli", version.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Sessions returns the open-session registry.
func (s *Server) Sessions() *Registry { return s.sessions }

// Serve starts the MCP server with the configured transport and blocks.
// Open sessions are closed when it returns.
func (s *Server) Serve(ctx context.Context) error {
	defer s.sessions.CloseAll()
	if s.cfg.IdleTTL > 0 {
		go s.reap(ctx)
	}
	switch s.cfg.Transport {
	case "", "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		s.log.Info("serving MCP over HTTP", zap.String("addr", addr))
		go func() {
			<-ctx.Done()
			_ = httpServer.Shutdown(context.Background())
		}()
		return httpServer.Start(addr)
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}

func (s *Server) reap(ctx context.Context) {
	t := time.NewTicker(s.cfg.IdleTTL / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, id := range s.sessions.Sweep() {
				s.log.Info("closed idle session", zap.String("session", id))
			}
		}
	}
}

// openSession starts a browser and registers a session for it.
func (s *Server) openSession(backend string) (string, error) {
	if backend == "" {
		backend = s.cfg.Backend
	}
	d, err := s.open(backend, s.cfg.Browser)
	if err != nil {
		return "", err
	}
	sess := session.New(d,
		session.WithRuntime(s.runtime),
		session.WithLogger(s.log.Named("session")),
	)
	r := steps.NewRunner(sess, screenshot.NewWriter(s.cfg.ScreenshotDir, s.log))
	id := s.sessions.Add(r)
	s.log.Info("opened session", zap.String("session", id), zap.String("backend", backend))
	return id, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
