package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the taxonomy every handler maps to HTTP.
type Kind int

const (
	KindInternal Kind = iota
	KindConfig        // missing credential, surfaced as 500 with a static message
	KindValidation    // malformed or out-of-bound request body, 400
	KindUpstream      // non-success response from an external API, 500
	KindAuth          // missing or invalid bearer token, 401
	KindNotFound      // record absent or owned by someone else, 404
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Config(msg string) error { return &Error{Kind: KindConfig, Msg: msg} }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Upstream wraps a relay failure. The upstream detail stays in the wrapped
// error for logs; the message is what clients see.
func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}

func Auth(msg string) error { return &Error{Kind: KindAuth, Msg: msg} }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

// HTTPStatus maps an error to its response code. Unclassified errors are 500.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the client-facing text: the taxonomy message without any wrapped
// upstream detail.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
