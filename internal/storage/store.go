package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/nmilosev/evalgate/internal/domain"
)

// HistoryStore is the durable append-only log of evaluation records.
// Records are never updated in place; concurrent writers need no
// coordination.
type HistoryStore interface {
	Append(ctx context.Context, record domain.EvalRecord) error
	List(ctx context.Context, page, size int) ([]domain.EvalRecord, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.EvalRecord, error)
}

// HistorySearcher is implemented by backends that support full-text search
// over prompts and outputs. Optional capability, checked at runtime.
type HistorySearcher interface {
	Search(ctx context.Context, query string, page, size int) ([]domain.EvalRecord, int64, error)
}

// PromptStore holds the versioned judge prompt templates. Activation is an
// atomic transition: a concurrent reader never observes zero or more than
// one active version.
type PromptStore interface {
	Create(ctx context.Context, name, template, description string, setActive bool) (*domain.JudgePromptVersion, error)
	Activate(ctx context.Context, version int64) error
	Get(ctx context.Context, version int64) (*domain.JudgePromptVersion, error)
	GetActive(ctx context.Context) (*domain.JudgePromptVersion, error)
	List(ctx context.Context) ([]domain.JudgePromptVersion, error)
	Stats(ctx context.Context, version int64) (*domain.PromptStats, error)
}
