package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanStatus(t *testing.T) {
	tests := []struct {
		msg  string
		want int
	}{
		{"Error 429, Message: quota exceeded, Status: RESOURCE_EXHAUSTED", 429},
		{`POST "https://api.anthropic.com/v1/messages": 401 Unauthorized {"type":"error"}`, 401},
		{"request failed with status code: 503", 503},
		{"status=502 bad gateway", 502},
		{"dial tcp 127.0.0.1:443: connect: connection refused", 0},
		{"status 200", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scanStatus(tt.msg), tt.msg)
	}
}

func TestStatusCode_PrefersTypedError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &StatusError{Provider: "openai", Code: 401, Err: errors.New("status 500")})
	assert.Equal(t, 401, StatusCode(err))
	assert.Equal(t, 0, StatusCode(nil))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&StatusError{Code: 500, Err: errors.New("boom")}))
	assert.True(t, IsTransient(&StatusError{Code: 503, Err: errors.New("boom")}))
	assert.False(t, IsTransient(&StatusError{Code: 401, Err: errors.New("boom")}))
	assert.False(t, IsTransient(&StatusError{Code: 429, Err: errors.New("boom")}))
	assert.True(t, IsTransient(fmt.Errorf("attempt: %w", context.DeadlineExceeded)))
	assert.False(t, IsTransient(fmt.Errorf("attempt: %w", context.Canceled)))
	assert.True(t, IsTransient(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}))
	assert.False(t, IsTransient(errors.New("empty response from model")))
	assert.False(t, IsTransient(nil))
}
