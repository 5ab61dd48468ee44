package services

import (
	"snapsolve/internal/repositories"

	"gorm.io/gorm"
)

// DbServices aggregates the repositories backed by the database.
type DbServices struct {
	Problems repositories.ProblemRepository
}

func NewDbServices(db *gorm.DB) *DbServices {
	return &DbServices{
		Problems: repositories.NewProblemRepository(db),
	}
}
