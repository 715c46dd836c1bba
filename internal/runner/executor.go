package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
	"github.com/nmilosev/evalgate/internal/judge"
	"github.com/nmilosev/evalgate/internal/provider"
	"github.com/nmilosev/evalgate/internal/storage"
)

// Publisher receives completed evaluation records for live fan-out.
// Publishing must never block the evaluation pipeline.
type Publisher interface {
	Publish(record domain.EvalRecord)
}

// Executor drives a single evaluation end to end: subject model call,
// optional judge call with the active template, verdict classification,
// record construction, persistence and broadcast. Executors are stateless
// and safe for concurrent use.
type Executor struct {
	registry  *provider.Registry
	prompts   storage.PromptStore
	history   storage.HistoryStore
	publisher Publisher
}

type ExecutorOption func(*Executor)

// WithPublisher attaches a broadcast sink for completed records.
func WithPublisher(p Publisher) ExecutorOption {
	return func(e *Executor) {
		e.publisher = p
	}
}

func NewExecutor(
	registry *provider.Registry,
	prompts storage.PromptStore,
	history storage.HistoryStore,
	opts ...ExecutorOption,
) *Executor {
	e := &Executor{
		registry: registry,
		prompts:  prompts,
		history:  history,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one evaluation. The returned record is always non-nil when
// the request validated; a PersistenceError means the evaluation itself
// succeeded but its durable copy was lost.
func (e *Executor) Run(ctx context.Context, req domain.EvalRequest) (*domain.EvalRecord, error) {
	subjectClient, judgeClient, err := e.resolve(req)
	if err != nil {
		return nil, err
	}

	record := domain.EvalRecord{
		ID:        uuid.New(),
		Model:     req.Model,
		Prompt:    req.Prompt,
		Expected:  req.Expected,
		Tags:      req.Tags,
		Metadata:  req.Metadata,
		CreatedAt: time.Now().UTC(),
	}

	subjectRes, err := subjectClient.Generate(ctx, req.Model.Name, req.Prompt)
	if err != nil {
		record.Status = domain.StatusError
		record.Error = err.Error()
		slog.Warn("Subject model call failed", "model", req.Model.String(), "error", err)
		return e.finish(ctx, record)
	}

	record.ModelOutput = subjectRes.Text
	record.LatencyMs = &subjectRes.LatencyMs
	record.InputTokens = subjectRes.InputTokens
	record.OutputTokens = subjectRes.OutputTokens

	if judgeClient == nil {
		record.Status = domain.StatusCompleted
		return e.finish(ctx, record)
	}

	e.runJudge(ctx, &record, req, judgeClient, subjectRes.Text)
	return e.finish(ctx, record)
}

// resolve looks up the subject and judge clients up front so no network
// call happens for a request that cannot complete. judgeClient is nil when
// the request does not ask for judging.
func (e *Executor) resolve(req domain.EvalRequest) (subject, judgeClient provider.Client, err error) {
	if req.Prompt == "" {
		return nil, nil, apperr.NewValidation("prompt is required")
	}
	if req.Model.Name == "" {
		return nil, nil, apperr.NewValidation("model is required")
	}

	subject, err = e.registry.ResolveID(req.Model)
	if err != nil {
		return nil, nil, apperr.NewValidationWrap("resolve model", err)
	}

	if !req.WantsJudge() {
		return subject, nil, nil
	}
	judgeClient, err = e.registry.ResolveID(req.JudgeModel)
	if err != nil {
		return nil, nil, apperr.NewValidationWrap("resolve judge model", err)
	}
	return subject, judgeClient, nil
}

// runJudge grades the subject output in place. Judge failures degrade the
// record to Completed with the error attached; the subject output is kept.
func (e *Executor) runJudge(
	ctx context.Context,
	record *domain.EvalRecord,
	req domain.EvalRequest,
	judgeClient provider.Client,
	actual string,
) {
	active, err := e.prompts.GetActive(ctx)
	if err != nil {
		record.Status = domain.StatusCompleted
		record.Error = "judge skipped: " + err.Error()
		slog.Error("No active judge prompt", "error", err)
		return
	}

	criteria := req.Criteria
	if criteria == "" {
		criteria = judge.DefaultCriteria
	}
	judgePrompt := judge.RenderTemplate(active.Template, judge.TemplateParams{
		Criteria: criteria,
		Expected: req.Expected,
		Actual:   actual,
	})

	judgeRes, err := judgeClient.Generate(ctx, req.JudgeModel.Name, judgePrompt)
	if err != nil {
		record.Status = domain.StatusCompleted
		record.Error = "judge failed: " + err.Error()
		slog.Warn("Judge model call failed", "judge_model", req.JudgeModel.String(), "error", err)
		return
	}

	verdict, reasoning := judge.Classify(judgeRes.Text)
	record.Status = statusForVerdict(verdict)
	record.Judge = &domain.JudgeVerdict{
		Verdict:    verdict,
		Reasoning:  reasoning,
		JudgeModel: req.JudgeModel,
	}
	record.JudgeLatencyMs = &judgeRes.LatencyMs
	record.JudgeInputTokens = judgeRes.InputTokens
	record.JudgeOutputTokens = judgeRes.OutputTokens
	record.JudgePromptVersion = &active.Version
}

// finish persists and broadcasts the completed record. Both are best-effort
// side effects; the record is returned to the caller either way.
func (e *Executor) finish(ctx context.Context, record domain.EvalRecord) (*domain.EvalRecord, error) {
	var err error
	if appendErr := e.history.Append(ctx, record); appendErr != nil {
		slog.Error("Evaluation record lost to storage failure", "record_id", record.ID, "error", appendErr)
		err = apperr.NewPersistence(appendErr)
	}
	if e.publisher != nil {
		e.publisher.Publish(record)
	}
	return &record, err
}

func statusForVerdict(v domain.Verdict) domain.EvalStatus {
	switch v {
	case domain.VerdictPass:
		return domain.StatusPassed
	case domain.VerdictFail:
		return domain.StatusFailed
	default:
		return domain.StatusUncertain
	}
}
