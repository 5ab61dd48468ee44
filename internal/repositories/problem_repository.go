package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"snapsolve/internal/models"
)

// ProblemRepository stores the single current problem and its follow-up chain.
type ProblemRepository interface {
	Current(ctx context.Context) (*models.Problem, error)
	Replace(ctx context.Context, problem *models.Problem) error
	AppendAttempt(ctx context.Context, problemID uint, attempt *models.SolveAttempt) error
	Clear(ctx context.Context) error
}

type problemRepository struct {
	db *gorm.DB
}

func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

// Current returns the stored problem with attempts in insertion order, or
// nil when nothing has been solved yet.
func (r *problemRepository) Current(ctx context.Context) (*models.Problem, error) {
	var problem models.Problem
	err := r.db.WithContext(ctx).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Order("id desc").
		Take(&problem).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &problem, nil
}

// Replace drops any previous problem (and its attempts) and stores problem.
func (r *problemRepository) Replace(ctx context.Context, problem *models.Problem) error {
	if problem == nil {
		return fmt.Errorf("problem is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearAll(tx); err != nil {
			return err
		}
		problem.ID = 0
		problem.Attempts = nil
		return tx.Create(problem).Error
	})
}

func (r *problemRepository) AppendAttempt(ctx context.Context, problemID uint, attempt *models.SolveAttempt) error {
	if problemID == 0 {
		return fmt.Errorf("problem ID is required")
	}
	if attempt == nil {
		return fmt.Errorf("attempt is required")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Problem{}).Where("id = ?", problemID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("problem %d not found", problemID)
		}
		attempt.ID = 0
		attempt.ProblemID = problemID
		return tx.Create(attempt).Error
	})
}

func (r *problemRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(clearAll)
}

func clearAll(tx *gorm.DB) error {
	if err := tx.Where("1 = 1").Delete(&models.SolveAttempt{}).Error; err != nil {
		return err
	}
	return tx.Where("1 = 1").Delete(&models.Problem{}).Error
}
