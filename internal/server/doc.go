// Package server holds the shared runtime state for the MCP server:
// the ServerContext (auth manager, TickTick client adapter and
// instrumentation hooks), the dedicated Prometheus metrics server and
// the health check endpoints used by the HTTP transport.
package server
