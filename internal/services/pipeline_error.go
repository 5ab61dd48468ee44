package services

import (
	"context"
	"errors"
	"fmt"

	"snapsolve/internal/llm/client"
)

type ErrorKind string

const (
	ErrNotConfigured       ErrorKind = "not_configured"
	ErrNoValidInput        ErrorKind = "no_valid_input"
	ErrNoPriorContext      ErrorKind = "no_prior_context"
	ErrUnauthorized        ErrorKind = "unauthorized"
	ErrRateLimited         ErrorKind = "rate_limited"
	ErrUpstreamServerError ErrorKind = "upstream_server_error"
	ErrCanceled            ErrorKind = "canceled"
	ErrUnknown             ErrorKind = "unknown"
)

// PipelineError is the only error type returned by Solve and Debug. Message
// is safe to show to the user.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error { return e.Err }

// AsPipelineError extracts a *PipelineError from err. Any other non-nil
// error is reported as ErrUnknown.
func AsPipelineError(err error) *PipelineError {
	if err == nil {
		return nil
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return &PipelineError{Kind: ErrUnknown, Message: err.Error(), Err: err}
}

// IsKind reports whether err is a PipelineError of kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *PipelineError
	return errors.As(err, &pe) && pe.Kind == kind
}

func newPipelineError(kind ErrorKind, message string) *PipelineError {
	return &PipelineError{Kind: kind, Message: message}
}

var (
	errNotConfigured  = newPipelineError(ErrNotConfigured, "API key or endpoint is not configured")
	errNoValidInput   = newPipelineError(ErrNoValidInput, "no readable screenshots to process")
	errNoPriorContext = newPipelineError(ErrNoPriorContext, "no previous solution to debug; solve a problem first")
	errCanceled       = newPipelineError(ErrCanceled, "request canceled")
)

// classifyUpstream maps a client failure onto the pipeline taxonomy.
func classifyUpstream(err error) *PipelineError {
	if errors.Is(err, context.Canceled) {
		return errCanceled
	}
	code := client.StatusCode(err)
	switch {
	case code == 401:
		return &PipelineError{Kind: ErrUnauthorized, Message: "invalid API key", Status: code, Err: err}
	case code == 429:
		return &PipelineError{Kind: ErrRateLimited, Message: "rate limit exceeded, try again later", Status: code, Err: err}
	case code >= 500:
		return &PipelineError{Kind: ErrUpstreamServerError, Message: fmt.Sprintf("AI service error (status %d)", code), Status: code, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &PipelineError{Kind: ErrUnknown, Message: "request timed out", Err: err}
	case code != 0:
		return &PipelineError{Kind: ErrUnknown, Message: fmt.Sprintf("request rejected (status %d)", code), Status: code, Err: err}
	}
	return &PipelineError{Kind: ErrUnknown, Message: "request failed", Err: err}
}
