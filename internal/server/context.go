package server

import (
	"context"
	"sync"

	"github.com/teemow/ticktick-mcp/internal/auth"
	"github.com/teemow/ticktick-mcp/internal/instrumentation"
	"github.com/teemow/ticktick-mcp/internal/ticktick"
)

// ServerContext holds the shared state for the MCP server: the single
// auth manager, the TickTick client adapter and the instrumentation
// hooks the tool handlers use.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	authManager *auth.Manager
	client      *ticktick.Client

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. The client adapter is
// gated by the auth manager, so it is safe to construct before login.
func NewServerContext(ctx context.Context, api *ticktick.API, store *auth.Store) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	manager := auth.NewManager(api, store)

	return &ServerContext{
		ctx:         shutdownCtx,
		cancel:      cancel,
		authManager: manager,
		client:      ticktick.NewClient(api, manager),
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// AuthManager returns the process-wide auth manager.
func (sc *ServerContext) AuthManager() *auth.Manager {
	return sc.authManager
}

// Client returns the TickTick client adapter.
func (sc *ServerContext) Client() *ticktick.Client {
	return sc.client
}

// SetInstrumentation installs the metrics recorder and audit logger.
// Both may be nil, in which case tool handlers run uninstrumented.
func (sc *ServerContext) SetInstrumentation(metrics *instrumentation.Metrics, audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.auditLogger = audit
}

// Metrics returns the metrics recorder, or nil if not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil if not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
