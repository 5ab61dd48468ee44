package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strconv"
)

// StatusError is an upstream failure with a known HTTP status.
type StatusError struct {
	Provider string
	Code     int
	Err      error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %v", e.Provider, e.Code, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

var statusPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)status(?:\s*code)?\s*[:=]?\s*(\d{3})\b`),
	regexp.MustCompile(`(?i)error\s+(\d{3})\b`),
	regexp.MustCompile(`":\s+(\d{3})\s+[A-Z]`),
}

// scanStatus pulls an HTTP status out of an error message for SDKs whose
// error types are not exposed through the eino wrappers.
func scanStatus(msg string) int {
	for _, re := range statusPatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		code, err := strconv.Atoi(m[1])
		if err == nil && code >= 400 && code <= 599 {
			return code
		}
	}
	return 0
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return scanStatus(err.Error())
}

// IsTransient reports whether a retry might succeed: server errors, network
// failures and per-attempt timeouts. Cancellation never is.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if code := StatusCode(err); code != 0 {
		return code >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
