// Package ticktick provides a client for the TickTick task service.
//
// The package has two layers:
//   - API: a minimal client for the private TickTick v2 HTTP API
//     (signon, state sync, batch project/task mutations)
//   - Client: the adapter the MCP tools talk to, with per-operation
//     authentication gating, local validation and the derived filters
//     (search, by-priority, due-today, overdue) that the backend has no
//     native endpoints for
//
// Derived filters scan the full synced task list on every call. That is
// fine for personal task lists; the backend offers nothing better.
//
// # Authentication
//
// The API authenticates with username and password via the signon
// endpoint and carries the returned session token as the "t" cookie on
// every subsequent request. Session handling lives in the auth package;
// Client only consults an Authenticator to decide whether an operation
// may proceed.
//
// # Errors
//
// All failures map onto a small taxonomy: AuthError (rejected
// credentials or expired session), NotAuthenticatedError (operation
// before login, nothing is sent to the backend), ValidationError
// (malformed parameter, rejected locally), NotFoundError (unknown id)
// and BackendError (network or remote fault). Requests are attempted
// exactly once; there is no retry or backoff.
package ticktick
