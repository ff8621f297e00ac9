package transport

import (
	"errors"
	"fmt"
)

// SessionExpiredErr is returned when the refresh token is missing or rejected
// while handling an authorization failure. The session has already been
// cleared by the time a caller sees it.
var SessionExpiredErr = errors.New("session expired")

// APIError is a non-2xx response from the backend, carrying the status code
// and the envelope message when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
