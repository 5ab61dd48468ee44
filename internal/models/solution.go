package models

import "time"

type Mode string

const (
	ModeInitial Mode = "initial"
	ModeDebug   Mode = "debug"
)

// SolutionRecord is the payload of a successful initial solve.
type SolutionRecord struct {
	Problem         string    `json:"problem"`
	Language        string    `json:"language"`
	Code            string    `json:"code"`
	Thoughts        []string  `json:"thoughts"`
	TimeComplexity  string    `json:"timeComplexity"`
	SpaceComplexity string    `json:"spaceComplexity"`
	Degraded        []string  `json:"degraded,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// DebugRecord is the payload of a successful follow-up run.
type DebugRecord struct {
	Language        string    `json:"language"`
	Code            string    `json:"code"`
	Thoughts        []string  `json:"thoughts"`
	Issues          []string  `json:"issues"`
	Improvements    []string  `json:"improvements"`
	TimeComplexity  string    `json:"timeComplexity"`
	SpaceComplexity string    `json:"spaceComplexity"`
	Degraded        []string  `json:"degraded,omitempty"`
	Attempt         int       `json:"attempt"`
	CreatedAt       time.Time `json:"createdAt"`
}
