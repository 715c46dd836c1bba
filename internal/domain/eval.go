package domain

import (
	"time"

	"github.com/google/uuid"
)

// EvalStatus is the terminal state of one evaluation attempt.
type EvalStatus string

const (
	StatusPassed    EvalStatus = "passed"
	StatusFailed    EvalStatus = "failed"
	StatusUncertain EvalStatus = "uncertain"
	StatusCompleted EvalStatus = "completed"
	StatusError     EvalStatus = "error"
)

// Verdict is the judge's tri-state decision.
type Verdict string

const (
	VerdictPass      Verdict = "pass"
	VerdictFail      Verdict = "fail"
	VerdictUncertain Verdict = "uncertain"
)

// JudgeVerdict carries the classified verdict together with the judge's
// retained reasoning text.
type JudgeVerdict struct {
	Verdict    Verdict         `json:"verdict"`
	Reasoning  string          `json:"reasoning"`
	JudgeModel ModelIdentifier `json:"judge_model"`
}

// EvalRequest describes one prompt to run against a subject model, optionally
// graded by a judge model against an expected answer.
type EvalRequest struct {
	Model      ModelIdentifier
	Prompt     string
	Expected   string
	JudgeModel ModelIdentifier
	Criteria   string
	Tags       []string
	Metadata   map[string]string
}

// WantsJudge reports whether the request carries everything a judge call
// needs. A judge model without an expected answer has no comparison target,
// so judging is skipped.
func (r EvalRequest) WantsJudge() bool {
	return !r.JudgeModel.IsZero() && r.Expected != ""
}

// EvalRecord is the immutable outcome of one evaluation attempt. It is
// constructed exactly once by the executor and never mutated afterwards.
type EvalRecord struct {
	ID                 uuid.UUID       `json:"id"`
	Status             EvalStatus      `json:"status"`
	Model              ModelIdentifier `json:"model"`
	Prompt             string          `json:"prompt"`
	ModelOutput        string          `json:"model_output,omitempty"`
	Expected           string          `json:"expected,omitempty"`
	Judge              *JudgeVerdict   `json:"judge,omitempty"`
	Error              string          `json:"error,omitempty"`
	LatencyMs          *int64          `json:"latency_ms,omitempty"`
	JudgeLatencyMs     *int64          `json:"judge_latency_ms,omitempty"`
	InputTokens        *int64          `json:"input_tokens,omitempty"`
	OutputTokens       *int64          `json:"output_tokens,omitempty"`
	JudgeInputTokens   *int64          `json:"judge_input_tokens,omitempty"`
	JudgeOutputTokens  *int64          `json:"judge_output_tokens,omitempty"`
	Tags               []string        `json:"tags,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	JudgePromptVersion *int64          `json:"judge_prompt_version,omitempty"`
}

// BatchSummary is the reduction of a batch run. It is derived from the
// constituent records and never persisted as its own entity.
type BatchSummary struct {
	BatchID           uuid.UUID    `json:"batch_id"`
	Total             int          `json:"total"`
	Completed         int          `json:"completed"`
	Passed            int          `json:"passed"`
	Failed            int          `json:"failed"`
	AvgModelLatencyMs float64      `json:"average_model_latency_ms"`
	AvgJudgeLatencyMs float64      `json:"average_judge_latency_ms"`
	Results           []EvalRecord `json:"results"`
}
