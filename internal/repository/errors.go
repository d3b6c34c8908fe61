package repository

import (
	"errors"
	"fmt"
)

var (
	ErrTransport           = errors.New("completion transport failure")
	ErrAuthentication      = errors.New("completion endpoint rejected credentials")
	ErrUpstreamStatus      = errors.New("completion endpoint returned an error status")
	ErrMalformedResponse   = errors.New("malformed completion response")
	ErrRenderRejected      = errors.New("render check failed")
	ErrCandidatesExhausted = errors.New("all model candidates failed")
	ErrPageExists          = errors.New("page with this id already exists")
	ErrEngineClosed        = errors.New("browser engine is closed")
)

// StatusError carries a non-success HTTP response from the completion endpoint.
type StatusError struct {
	StatusCode int
	Body       string
	Auth       bool
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion endpoint error %d: %s", e.StatusCode, e.Body)
}

// Unwrap classifies the status as an authentication or a generic upstream failure.
func (e *StatusError) Unwrap() error {
	if e.Auth {
		return ErrAuthentication
	}
	return ErrUpstreamStatus
}
