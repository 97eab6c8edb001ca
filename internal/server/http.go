package server

import (
	"context"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// HTTP server timeouts.
const (
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
)

// HTTPServer serves the MCP server over the streamable HTTP transport.
// Besides the /mcp endpoint it exposes /healthz and /readyz so the
// process can run behind a load balancer or in Kubernetes.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	httpServer    *http.Server
	healthChecker *HealthChecker
}

// NewHTTPServer creates an HTTP server for the given MCP server.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, healthChecker *HealthChecker) *HTTPServer {
	return &HTTPServer{
		mcpServer:     mcpSrv,
		healthChecker: healthChecker,
	}
}

// Start begins serving on the given address. It blocks until the server
// stops; a clean shutdown returns http.ErrServerClosed.
func (s *HTTPServer) Start(addr string) error {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)
	mux.Handle("/mcp", streamable)

	if s.healthChecker != nil {
		mux.HandleFunc("/healthz", s.healthChecker.LivenessHandler)
		mux.HandleFunc("/readyz", s.healthChecker.ReadinessHandler)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	if s.healthChecker != nil {
		s.healthChecker.SetReady(true)
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.healthChecker != nil {
		s.healthChecker.SetReady(false)
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
