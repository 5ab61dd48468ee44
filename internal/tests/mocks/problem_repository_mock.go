package mocks

import (
	"context"

	"snapsolve/internal/models"
)

type ProblemRepositoryMock struct {
	CurrentFunc       func(ctx context.Context) (*models.Problem, error)
	ReplaceFunc       func(ctx context.Context, problem *models.Problem) error
	AppendAttemptFunc func(ctx context.Context, problemID uint, attempt *models.SolveAttempt) error
	ClearFunc         func(ctx context.Context) error
}

func (m *ProblemRepositoryMock) Current(ctx context.Context) (*models.Problem, error) {
	if m.CurrentFunc != nil {
		return m.CurrentFunc(ctx)
	}
	return nil, nil
}

func (m *ProblemRepositoryMock) Replace(ctx context.Context, problem *models.Problem) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, problem)
	}
	return nil
}

func (m *ProblemRepositoryMock) AppendAttempt(ctx context.Context, problemID uint, attempt *models.SolveAttempt) error {
	if m.AppendAttemptFunc != nil {
		return m.AppendAttemptFunc(ctx, problemID, attempt)
	}
	return nil
}

func (m *ProblemRepositoryMock) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}
