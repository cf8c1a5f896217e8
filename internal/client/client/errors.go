package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTimeout           = errors.New("request timed out")
	ErrMalformedResponse = errors.New("malformed response")
)

// RemoteError is a response the backend produced on purpose: success=false
// or a non-2xx status that is not an authorization failure.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error (status %d)", e.Status)
	}
	return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
}
