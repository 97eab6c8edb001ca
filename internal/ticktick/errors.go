package ticktick

import "fmt"

// AuthError indicates that the backend rejected the supplied credentials
// or that an existing session is no longer valid.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ticktick %s: authentication failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ticktick %s: authentication failed", e.Op)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotAuthenticatedError indicates an operation was attempted before login.
// No backend call is made when this error is returned.
type NotAuthenticatedError struct {
	Op string
}

func (e *NotAuthenticatedError) Error() string {
	return fmt.Sprintf("ticktick %s: not authenticated, login first", e.Op)
}

// ValidationError indicates a malformed or out-of-range parameter. The
// request is rejected locally before anything is sent to the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError indicates an id that does not resolve to a known
// project or task.
type NotFoundError struct {
	Kind string // "project" or "task"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// BackendError indicates a network fault or an unexpected response from
// the TickTick service. Always surfaced, never swallowed.
type BackendError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ticktick %s: backend returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("ticktick %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
