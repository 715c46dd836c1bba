package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nmilosev/evalgate/internal/domain"
	"github.com/nmilosev/evalgate/pkg/utils"
)

// DefaultBatchWorkers bounds simultaneous outbound model calls per batch.
// The bound is fixed by configuration, never derived from batch size.
const DefaultBatchWorkers = 4

// Coordinator fans a batch of evaluation requests over a bounded worker
// pool and reduces the outcomes into a BatchSummary. Items fail
// independently; one item's provider failure never cancels its siblings.
type Coordinator struct {
	executor *Executor
	workers  int
}

type CoordinatorOption func(*Coordinator)

func WithWorkers(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

func NewCoordinator(executor *Executor, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		executor: executor,
		workers:  DefaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunBatch executes every request and waits for all of them to reach a
// terminal state. Results come back in request order regardless of
// completion order, so repeated runs with the same inputs diff cleanly.
func (c *Coordinator) RunBatch(ctx context.Context, requests []domain.EvalRequest) domain.BatchSummary {
	batchID := uuid.New()
	results := make([]domain.EvalRecord, len(requests))

	type job struct {
		index int
		req   domain.EvalRequest
	}

	jobs := make(chan job, c.workers*2)
	var wg sync.WaitGroup

	wg.Add(c.workers)
	for w := 0; w < c.workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = c.runItem(ctx, j.req)
			}
		}()
	}

	for i, req := range requests {
		jobs <- job{index: i, req: req}
	}
	close(jobs)
	wg.Wait()

	summary := summarize(batchID, results)
	slog.Info("Batch finished",
		"batch_id", batchID,
		"total", summary.Total,
		"completed", summary.Completed,
		"passed", summary.Passed,
		"failed", summary.Failed,
	)
	return summary
}

// runItem folds executor failures into a terminal record so the batch
// always ends up with one record per request.
func (c *Coordinator) runItem(ctx context.Context, req domain.EvalRequest) domain.EvalRecord {
	record, err := c.executor.Run(ctx, req)
	if record != nil {
		// A persistence failure still yields a usable in-memory record.
		return *record
	}

	return domain.EvalRecord{
		ID:        uuid.New(),
		Status:    domain.StatusError,
		Model:     req.Model,
		Prompt:    req.Prompt,
		Expected:  req.Expected,
		Tags:      req.Tags,
		Metadata:  req.Metadata,
		Error:     err.Error(),
		CreatedAt: time.Now().UTC(),
	}
}

func summarize(batchID uuid.UUID, results []domain.EvalRecord) domain.BatchSummary {
	summary := domain.BatchSummary{
		BatchID: batchID,
		Total:   len(results),
		Results: results,
	}

	var modelLatencySum, judgeLatencySum float64
	var modelLatencyCount, judgeLatencyCount int

	for _, r := range results {
		// Every terminal record counts as completed, Error included; only
		// judge verdicts move the pass/fail counters.
		summary.Completed++
		switch r.Status {
		case domain.StatusPassed:
			summary.Passed++
		case domain.StatusFailed:
			summary.Failed++
		}

		if r.LatencyMs != nil {
			modelLatencySum += float64(*r.LatencyMs)
			modelLatencyCount++
		}
		if r.JudgeLatencyMs != nil {
			judgeLatencySum += float64(*r.JudgeLatencyMs)
			judgeLatencyCount++
		}
	}

	if modelLatencyCount > 0 {
		summary.AvgModelLatencyMs = utils.RoundDecimal(modelLatencySum/float64(modelLatencyCount), 2)
	}
	if judgeLatencyCount > 0 {
		summary.AvgJudgeLatencyMs = utils.RoundDecimal(judgeLatencySum/float64(judgeLatencyCount), 2)
	}
	return summary
}
