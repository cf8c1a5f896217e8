package services

import (
	"errors"

	"github.com/dmitrijs2005/newsreader/internal/client/client"
)

var (
	// ErrAuthenticationRequired is returned when an authenticated operation
	// is attempted without a session. The caller has already been redirected.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrAuthenticationExpired is returned when the backend rejected the
	// token. The session has been cleared and the caller redirected.
	ErrAuthenticationExpired = errors.New("authentication expired")
	ErrValidation            = errors.New("validation failed")
)

const NetworkErrorMessage = "Network error. Please check your connection and try again."

// ValidationError is a client-side rejection; no request was sent.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validation(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsAuthError reports whether err is handled by redirect rather than shown
// inline.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthenticationRequired) || errors.Is(err, ErrAuthenticationExpired)
}

// Describe turns err into inline UI text. Server-provided messages win;
// otherwise fallback is used. Transport failures get a generic network text.
func Describe(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}

	if errors.Is(err, client.ErrUnavailable) || errors.Is(err, client.ErrTimeout) {
		return NetworkErrorMessage
	}

	var re *client.RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return fallback
}
