// Package logging provides the slog conventions used across the
// application: a stderr-only default logger (stdout belongs to the MCP
// stdio transport) and the shared attribute keys for tool and backend
// operation logging.
package logging
