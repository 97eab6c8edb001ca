// Package cmd implements the command-line interface for ticktick-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide TickTick tools for AI assistants
//   - auth: Log in to TickTick and save credentials locally
//   - logout: Remove the saved credentials
//   - test: Verify the saved credentials against the backend
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
