package pg

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
)

// Prompts persists judge prompt versions in Postgres. The is_active flag is
// only ever flipped inside a transaction so readers observe exactly one
// active row.
type Prompts struct {
	db *pgxpool.Pool
}

func NewPrompts(pool *ConnectionPool) *Prompts {
	return &Prompts{db: pool.conn}
}

func (s *Prompts) Create(ctx context.Context, name, template, description string, setActive bool) (*domain.JudgePromptVersion, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM judge_prompts`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count judge prompts: %w", err)
	}
	if count == 0 {
		setActive = true
	}

	if setActive {
		if _, err := tx.Exec(ctx, `UPDATE judge_prompts SET is_active = FALSE WHERE is_active`); err != nil {
			return nil, fmt.Errorf("deactivate judge prompts: %w", err)
		}
	}

	var prompt domain.JudgePromptVersion
	var description2 *string
	err = tx.QueryRow(ctx, `
        INSERT INTO judge_prompts (name, template, description, is_active, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING version, name, template, description, is_active, created_at
    `, name, template, nilIfEmpty(description), setActive, time.Now().UTC()).Scan(
		&prompt.Version, &prompt.Name, &prompt.Template, &description2, &prompt.IsActive, &prompt.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert judge prompt: %w", err)
	}
	prompt.Description = deref(description2)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &prompt, nil
}

func (s *Prompts) Activate(ctx context.Context, version int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists int64
	err = tx.QueryRow(ctx, `SELECT version FROM judge_prompts WHERE version = $1`, version).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NewNotFound("judge prompt version", strconv.FormatInt(version, 10))
	}
	if err != nil {
		return fmt.Errorf("check judge prompt version: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE judge_prompts SET is_active = FALSE WHERE is_active`); err != nil {
		return fmt.Errorf("deactivate judge prompts: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE judge_prompts SET is_active = TRUE WHERE version = $1`, version); err != nil {
		return fmt.Errorf("activate judge prompt: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const promptColumns = `version, name, template, description, is_active, created_at`

func (s *Prompts) Get(ctx context.Context, version int64) (*domain.JudgePromptVersion, error) {
	prompt, err := s.scanOne(s.db.QueryRow(ctx, `
        SELECT `+promptColumns+` FROM judge_prompts WHERE version = $1
    `, version))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("judge prompt version", strconv.FormatInt(version, 10))
	}
	return prompt, err
}

func (s *Prompts) GetActive(ctx context.Context) (*domain.JudgePromptVersion, error) {
	prompt, err := s.scanOne(s.db.QueryRow(ctx, `
        SELECT `+promptColumns+` FROM judge_prompts WHERE is_active LIMIT 1
    `))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("active judge prompt", "none")
	}
	return prompt, err
}

func (s *Prompts) List(ctx context.Context) ([]domain.JudgePromptVersion, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+promptColumns+` FROM judge_prompts ORDER BY version ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("query judge prompts: %w", err)
	}
	defer rows.Close()

	var prompts []domain.JudgePromptVersion
	for rows.Next() {
		var prompt domain.JudgePromptVersion
		var description *string
		if err := rows.Scan(&prompt.Version, &prompt.Name, &prompt.Template, &description, &prompt.IsActive, &prompt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan judge prompt row: %w", err)
		}
		prompt.Description = deref(description)
		prompts = append(prompts, prompt)
	}
	return prompts, rows.Err()
}

func (s *Prompts) Stats(ctx context.Context, version int64) (*domain.PromptStats, error) {
	stats := &domain.PromptStats{Version: version}
	var passed *int64
	var avgLatency, avgJudgeLatency *float64

	err := s.db.QueryRow(ctx, `
        SELECT
            COUNT(*),
            SUM(CASE WHEN status = 'passed' THEN 1 ELSE 0 END),
            AVG(latency_ms),
            AVG(judge_latency_ms)
        FROM evaluations
        WHERE judge_prompt_version = $1
    `, version).Scan(&stats.TotalEvaluations, &passed, &avgLatency, &avgJudgeLatency)
	if err != nil {
		return nil, fmt.Errorf("query prompt stats: %w", err)
	}

	if passed != nil {
		stats.Passed = *passed
	}
	if avgLatency != nil {
		stats.AvgLatencyMs = *avgLatency
	}
	if avgJudgeLatency != nil {
		stats.AvgJudgeLatencyMs = *avgJudgeLatency
	}
	return stats, nil
}

func (s *Prompts) scanOne(row pgx.Row) (*domain.JudgePromptVersion, error) {
	var prompt domain.JudgePromptVersion
	var description *string
	err := row.Scan(&prompt.Version, &prompt.Name, &prompt.Template, &description, &prompt.IsActive, &prompt.CreatedAt)
	if err != nil {
		return nil, err
	}
	prompt.Description = deref(description)
	return &prompt, nil
}
