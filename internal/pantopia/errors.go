package pantopia

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned for 401 responses. The stored token has
	// already been cleared when callers see it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
)

// APIError describes any other non-2xx response.
type APIError struct {
	Status int
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// InvalidTransitionError is returned when a brief status change is not allowed.
type InvalidTransitionError struct {
	From BriefStatus
	To   BriefStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("brief cannot move from %q to %q", e.From, e.To)
}
