// Package resources provides read-only MCP resources. Clients can fetch
// the current authentication state and the project list without going
// through a tool call.
package resources
