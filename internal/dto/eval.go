package dto

import (
	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
)

type RunEvalRequest struct {
	Model      string            `json:"model" validate:"required" example:"gemini:gemini-2.0-flash"`
	Prompt     string            `json:"prompt" validate:"required"`
	Expected   string            `json:"expected,omitempty"`
	JudgeModel string            `json:"judge_model,omitempty" example:"openai:gpt-4o"`
	Criteria   string            `json:"criteria,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type BatchEvalRequest struct {
	Evals []RunEvalRequest `json:"evals" validate:"required,min=1"`
}

// ToDomain parses the wire-level model identifiers. The judge model is only
// parsed when present, so subject-only requests carry a zero judge identifier.
func (r RunEvalRequest) ToDomain() (domain.EvalRequest, error) {
	model, err := domain.ParseModelIdentifier(r.Model)
	if err != nil {
		return domain.EvalRequest{}, apperr.NewValidationWrap("invalid model", err)
	}

	req := domain.EvalRequest{
		Model:    model,
		Prompt:   r.Prompt,
		Expected: r.Expected,
		Criteria: r.Criteria,
		Tags:     r.Tags,
		Metadata: r.Metadata,
	}

	if r.JudgeModel != "" {
		judgeModel, err := domain.ParseModelIdentifier(r.JudgeModel)
		if err != nil {
			return domain.EvalRequest{}, apperr.NewValidationWrap("invalid judge model", err)
		}
		req.JudgeModel = judgeModel
	}

	return req, nil
}

func (r BatchEvalRequest) ToDomain() ([]domain.EvalRequest, error) {
	requests := make([]domain.EvalRequest, 0, len(r.Evals))
	for _, e := range r.Evals {
		req, err := e.ToDomain()
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// EvalUpdate is the websocket payload pushed for every finished evaluation.
type EvalUpdate struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Model     string `json:"model,omitempty"`
	Verdict   string `json:"verdict,omitempty"`
	LatencyMs *int64 `json:"latency_ms,omitempty"`
}

func EvalUpdateFrom(record domain.EvalRecord) EvalUpdate {
	update := EvalUpdate{
		ID:        record.ID.String(),
		Status:    string(record.Status),
		Model:     record.Model.String(),
		LatencyMs: record.LatencyMs,
	}
	if record.Judge != nil {
		update.Verdict = string(record.Judge.Verdict)
	}
	return update
}
