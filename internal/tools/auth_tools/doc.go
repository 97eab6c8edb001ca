// Package auth_tools provides MCP tools for TickTick authentication.
//
// # Available Tools
//
//   - auth_login: Login with username and password; credentials are
//     persisted locally so later server starts authenticate automatically
//   - auth_logout: Logout and remove saved credentials
//   - auth_status: Report whether the server is authenticated and as whom
//
// These tools are always registered, even in read-only mode: a client
// that starts unauthenticated needs auth_login to make any other tool
// usable.
package auth_tools
