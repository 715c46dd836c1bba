package factory

import (
	"context"
	"fmt"

	"github.com/nmilosev/evalgate/internal/storage"
	"github.com/nmilosev/evalgate/internal/storage/es"
	"github.com/nmilosev/evalgate/internal/storage/inmem"
	"github.com/nmilosev/evalgate/internal/storage/pg"
)

// Stores bundles the backends the service needs, selected by StorageConfig.
type Stores struct {
	History storage.HistoryStore
	Prompts storage.PromptStore

	// Pool is non-nil only for the Postgres backend; used for health checks
	// and shutdown.
	Pool *pg.ConnectionPool
}

// New wires the history and judge prompt stores for the configured backend.
// The Elasticsearch backend keeps prompt versions in memory: prompt
// activation needs transactional semantics that the index does not provide.
func New(ctx context.Context, cfg *StorageConfig) (*Stores, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return &Stores{
			History: pg.NewHistory(pool),
			Prompts: pg.NewPrompts(pool),
			Pool:    pool,
		}, nil

	case storage.ES:
		history, err := es.NewHistory(ctx, *cfg.Es)
		if err != nil {
			return nil, fmt.Errorf("failed to create Elasticsearch history store: %w", err)
		}
		return &Stores{
			History: history,
			Prompts: inmem.NewPrompts(nil),
		}, nil

	case storage.InMem:
		history := inmem.NewHistory()
		return &Stores{
			History: history,
			Prompts: inmem.NewPrompts(history),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
