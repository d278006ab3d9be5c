package client

import (
	"errors"
	"fmt"
)

// Error kinds for the executor and mapper. Callers branch with errors.Is;
// the command surface translates all of them into user-visible text.
var (
	// ErrTransport covers connection errors, timeouts and non-2xx replies.
	ErrTransport = errors.New("transport failure")
	// ErrBackend marks a GraphQL errors array that is not an authorization
	// rejection.
	ErrBackend = errors.New("backend reported errors")
	// ErrAuthorization marks a GraphQL error mentioning authorization.
	ErrAuthorization = errors.New("authorization rejected")
	// ErrMalformed marks a response missing an expected field, distinct
	// from an empty result.
	ErrMalformed = errors.New("malformed response")
)

// ParseError reports a missing or invalid field in an otherwise well-formed
// response. It unwraps to ErrMalformed.
type ParseError struct {
	Op    string
	Field string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: missing or invalid field %q", e.Op, e.Field)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformed
}
