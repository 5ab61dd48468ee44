package models

import "time"

// Problem is the record created by a successful initial solve. Follow-up
// (debug) runs append SolveAttempts instead of replacing it, so the whole
// chain can be replayed as context.
type Problem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Statement   string         `gorm:"type:text" json:"statement"`
	Constraints string         `gorm:"type:text" json:"constraints,omitempty"`
	Examples    string         `gorm:"type:text" json:"examples,omitempty"`
	Language    string         `gorm:"size:50;not null" json:"language"`
	Code        string         `gorm:"type:text" json:"code"`
	Attempts    []SolveAttempt `gorm:"constraint:OnDelete:CASCADE" json:"attempts,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// SolveAttempt is one debug/follow-up round on top of a Problem.
type SolveAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProblemID uint      `gorm:"not null;index:idx_attempt_problem" json:"problemId"`
	Code      string    `gorm:"type:text" json:"code"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
