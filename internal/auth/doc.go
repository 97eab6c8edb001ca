// Package auth manages the TickTick session and credential persistence.
//
// The Store reads and writes ~/.ticktick-mcp/credentials.json with
// owner-only permissions; TICKTICK_USERNAME and TICKTICK_PASSWORD
// override the file. A corrupt or unreadable file is treated as absent,
// which simply forces a fresh login.
//
// The Manager is the single holder of authentication state for the
// process. It starts unauthenticated, becomes authenticated when Login
// or Resume succeeds, and returns to unauthenticated on Logout. The
// ticktick client adapter consults it before every backend operation.
package auth
