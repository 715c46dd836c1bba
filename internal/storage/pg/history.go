package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
)

// History persists evaluation records in Postgres. Rows are append-only.
type History struct {
	db *pgxpool.Pool
}

func NewHistory(pool *ConnectionPool) *History {
	return &History{db: pool.conn}
}

func (s *History) Append(ctx context.Context, record domain.EvalRecord) error {
	var judgeModel, judgeVerdict, judgeReasoning *string
	if record.Judge != nil {
		jm := record.Judge.JudgeModel.String()
		jv := string(record.Judge.Verdict)
		jr := record.Judge.Reasoning
		judgeModel, judgeVerdict, judgeReasoning = &jm, &jv, &jr
	}

	var tagsJSON, metadataJSON []byte
	var err error
	if len(record.Tags) > 0 {
		if tagsJSON, err = json.Marshal(record.Tags); err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}
	}
	if len(record.Metadata) > 0 {
		if metadataJSON, err = json.Marshal(record.Metadata); err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	cmd := `
        INSERT INTO evaluations (
            id, status, model, prompt, model_output, expected,
            judge_model, judge_verdict, judge_reasoning, error_message,
            latency_ms, judge_latency_ms, input_tokens, output_tokens,
            judge_input_tokens, judge_output_tokens, tags, metadata,
            created_at, judge_prompt_version
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
    `
	_, err = s.db.Exec(
		ctx,
		cmd,
		record.ID,
		string(record.Status),
		record.Model.String(),
		record.Prompt,
		nilIfEmpty(record.ModelOutput),
		nilIfEmpty(record.Expected),
		judgeModel,
		judgeVerdict,
		judgeReasoning,
		nilIfEmpty(record.Error),
		record.LatencyMs,
		record.JudgeLatencyMs,
		record.InputTokens,
		record.OutputTokens,
		record.JudgeInputTokens,
		record.JudgeOutputTokens,
		tagsJSON,
		metadataJSON,
		createdAt,
		record.JudgePromptVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}

	return nil
}

const historyColumns = `
        id, status, model, prompt, model_output, expected,
        judge_model, judge_verdict, judge_reasoning, error_message,
        latency_ms, judge_latency_ms, input_tokens, output_tokens,
        judge_input_tokens, judge_output_tokens, tags, metadata,
        created_at, judge_prompt_version
`

func (s *History) List(ctx context.Context, page, size int) ([]domain.EvalRecord, int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count evaluations: %w", err)
	}

	offset := (page - 1) * size
	rows, err := s.db.Query(ctx, `
        SELECT `+historyColumns+`
        FROM evaluations
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *History) Get(ctx context.Context, id uuid.UUID) (*domain.EvalRecord, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+historyColumns+`
        FROM evaluations
        WHERE id = $1
    `, id)
	if err != nil {
		return nil, fmt.Errorf("query evaluation: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperr.NewNotFound("evaluation", id.String())
	}
	return &records[0], nil
}

func scanRecords(rows pgx.Rows) ([]domain.EvalRecord, error) {
	var records []domain.EvalRecord
	for rows.Next() {
		var (
			r                                        domain.EvalRecord
			status, model                            string
			modelOutput, expected                    *string
			judgeModel, judgeVerdict, judgeReasoning *string
			errorMessage                             *string
			tagsJSON, metadataJSON                   []byte
		)

		err := rows.Scan(
			&r.ID, &status, &model, &r.Prompt, &modelOutput, &expected,
			&judgeModel, &judgeVerdict, &judgeReasoning, &errorMessage,
			&r.LatencyMs, &r.JudgeLatencyMs, &r.InputTokens, &r.OutputTokens,
			&r.JudgeInputTokens, &r.JudgeOutputTokens, &tagsJSON, &metadataJSON,
			&r.CreatedAt, &r.JudgePromptVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation row: %w", err)
		}

		r.Status = domain.EvalStatus(status)
		if id, err := domain.ParseModelIdentifier(model); err == nil {
			r.Model = id
		}
		r.ModelOutput = deref(modelOutput)
		r.Expected = deref(expected)
		r.Error = deref(errorMessage)

		if judgeVerdict != nil {
			verdict := domain.JudgeVerdict{
				Verdict:   domain.Verdict(*judgeVerdict),
				Reasoning: deref(judgeReasoning),
			}
			if judgeModel != nil {
				if id, err := domain.ParseModelIdentifier(*judgeModel); err == nil {
					verdict.JudgeModel = id
				}
			}
			r.Judge = &verdict
		}

		if len(tagsJSON) > 0 {
			if err := json.Unmarshal(tagsJSON, &r.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags: %w", err)
			}
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &r.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}

		records = append(records, r)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return records, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
