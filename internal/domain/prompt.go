package domain

import "time"

// JudgePromptVersion is one immutable revision of the judge prompt template.
// Exactly one version is active at a time once the store is seeded.
type JudgePromptVersion struct {
	Version     int64     `json:"version"`
	Name        string    `json:"name"`
	Template    string    `json:"template"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// PromptStats aggregates evaluation outcomes for one judge prompt version.
type PromptStats struct {
	Version           int64   `json:"version"`
	TotalEvaluations  int64   `json:"total_evaluations"`
	Passed            int64   `json:"passed"`
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
	AvgJudgeLatencyMs float64 `json:"avg_judge_latency_ms"`
}
