package mocks

import (
	"context"
	"sync"

	"snapsolve/internal/llm/client"
)

type VisionClientMock struct {
	CompleteFunc func(ctx context.Context, req client.Request) (string, error)
	NameFunc     func() string

	mu       sync.Mutex
	requests []client.Request
}

func (m *VisionClientMock) Complete(ctx context.Context, req client.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", nil
}

func (m *VisionClientMock) Name() string {
	if m.NameFunc != nil {
		return m.NameFunc()
	}
	return "mock"
}

// Requests returns every request received so far.
func (m *VisionClientMock) Requests() []client.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]client.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls is len(Requests()).
func (m *VisionClientMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
