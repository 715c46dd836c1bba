package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
)

// History stores evaluation records in Elasticsearch. Compared to the
// Postgres backend it adds full-text search over prompts and outputs.
type History struct {
	client    *elasticsearch.TypedClient
	indexName string
}

// evalDocument is the flattened index shape of one evaluation record.
type evalDocument struct {
	ID                 string            `json:"id"`
	Status             string            `json:"status"`
	Model              string            `json:"model"`
	Prompt             string            `json:"prompt"`
	ModelOutput        string            `json:"model_output,omitempty"`
	Expected           string            `json:"expected,omitempty"`
	JudgeModel         string            `json:"judge_model,omitempty"`
	JudgeVerdict       string            `json:"judge_verdict,omitempty"`
	JudgeReasoning     string            `json:"judge_reasoning,omitempty"`
	ErrorMessage       string            `json:"error_message,omitempty"`
	LatencyMs          *int64            `json:"latency_ms,omitempty"`
	JudgeLatencyMs     *int64            `json:"judge_latency_ms,omitempty"`
	InputTokens        *int64            `json:"input_tokens,omitempty"`
	OutputTokens       *int64            `json:"output_tokens,omitempty"`
	JudgeInputTokens   *int64            `json:"judge_input_tokens,omitempty"`
	JudgeOutputTokens  *int64            `json:"judge_output_tokens,omitempty"`
	Tags               []string          `json:"tags,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	JudgePromptVersion *int64            `json:"judge_prompt_version,omitempty"`
}

func NewHistory(ctx context.Context, config ClientConfig) (*History, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	h := &History{
		client:    client,
		indexName: config.IndexName,
	}

	if err := h.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return h, nil
}

func (h *History) ensureIndex(ctx context.Context) error {
	exists, err := h.client.Indices.Exists(h.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", h.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":            types.NewKeywordProperty(),
			"status":        types.NewKeywordProperty(),
			"model":         types.NewKeywordProperty(),
			"prompt":        types.NewTextProperty(),
			"model_output":  types.NewTextProperty(),
			"expected":      types.NewTextProperty(),
			"judge_model":   types.NewKeywordProperty(),
			"judge_verdict": types.NewKeywordProperty(),
			"tags":          types.NewKeywordProperty(),
			"created_at":    types.NewDateProperty(),
			"latency_ms":    types.NewLongNumberProperty(),
		},
	}

	createRes, err := h.client.Indices.Create(h.indexName).Mappings(&mappings).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", h.indexName)
	return nil
}

func (h *History) Append(ctx context.Context, record domain.EvalRecord) error {
	doc := mapToDocument(record)

	res, err := h.client.Index(h.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index evaluation: %w", err)
	}

	slog.Debug("evaluation indexed", "id", doc.ID, "index", h.indexName, "result", res.Result)
	return nil
}

// Refresh forces the index to make recent writes visible to search.
// Indexing is otherwise near-real-time; callers that read back their own
// writes immediately need this.
func (h *History) Refresh(ctx context.Context) error {
	if _, err := h.client.Indices.Refresh().Index(h.indexName).Do(ctx); err != nil {
		return fmt.Errorf("refresh index: %w", err)
	}
	return nil
}

func (h *History) List(ctx context.Context, page, size int) ([]domain.EvalRecord, int64, error) {
	desc := sortorder.Desc
	res, err := h.client.Search().
		Index(h.indexName).
		Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
		Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"created_at": {Order: &desc},
			},
		}).
		From((page - 1) * size).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("search evaluations: %w", err)
	}

	return collectHits(res.Hits)
}

func (h *History) Get(ctx context.Context, id uuid.UUID) (*domain.EvalRecord, error) {
	res, err := h.client.Get(h.indexName, id.String()).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	if !res.Found {
		return nil, apperr.NewNotFound("evaluation", id.String())
	}

	var doc evalDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal evaluation document: %w", err)
	}
	record := mapToRecord(doc)
	return &record, nil
}

func (h *History) Search(ctx context.Context, query string, page, size int) ([]domain.EvalRecord, int64, error) {
	desc := sortorder.Desc
	res, err := h.client.Search().
		Index(h.indexName).
		Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  query,
				Fields: []string{"prompt^2.0", "model_output", "expected", "judge_reasoning"},
			},
		}).
		Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"created_at": {Order: &desc},
			},
		}).
		From((page - 1) * size).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("search evaluations: %w", err)
	}

	return collectHits(res.Hits)
}

func collectHits(hits types.HitsMetadata) ([]domain.EvalRecord, int64, error) {
	var total int64
	if hits.Total != nil {
		total = hits.Total.Value
	}

	records := make([]domain.EvalRecord, 0, len(hits.Hits))
	for _, hit := range hits.Hits {
		var doc evalDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, 0, fmt.Errorf("unmarshal evaluation document: %w", err)
		}
		records = append(records, mapToRecord(doc))
	}
	return records, total, nil
}

func mapToDocument(record domain.EvalRecord) evalDocument {
	doc := evalDocument{
		ID:                 record.ID.String(),
		Status:             string(record.Status),
		Model:              record.Model.String(),
		Prompt:             record.Prompt,
		ModelOutput:        record.ModelOutput,
		Expected:           record.Expected,
		ErrorMessage:       record.Error,
		LatencyMs:          record.LatencyMs,
		JudgeLatencyMs:     record.JudgeLatencyMs,
		InputTokens:        record.InputTokens,
		OutputTokens:       record.OutputTokens,
		JudgeInputTokens:   record.JudgeInputTokens,
		JudgeOutputTokens:  record.JudgeOutputTokens,
		Tags:               record.Tags,
		Metadata:           record.Metadata,
		CreatedAt:          record.CreatedAt,
		JudgePromptVersion: record.JudgePromptVersion,
	}
	if record.Judge != nil {
		doc.JudgeModel = record.Judge.JudgeModel.String()
		doc.JudgeVerdict = string(record.Judge.Verdict)
		doc.JudgeReasoning = record.Judge.Reasoning
	}
	return doc
}

func mapToRecord(doc evalDocument) domain.EvalRecord {
	record := domain.EvalRecord{
		Status:             domain.EvalStatus(doc.Status),
		Prompt:             doc.Prompt,
		ModelOutput:        doc.ModelOutput,
		Expected:           doc.Expected,
		Error:              doc.ErrorMessage,
		LatencyMs:          doc.LatencyMs,
		JudgeLatencyMs:     doc.JudgeLatencyMs,
		InputTokens:        doc.InputTokens,
		OutputTokens:       doc.OutputTokens,
		JudgeInputTokens:   doc.JudgeInputTokens,
		JudgeOutputTokens:  doc.JudgeOutputTokens,
		Tags:               doc.Tags,
		Metadata:           doc.Metadata,
		CreatedAt:          doc.CreatedAt,
		JudgePromptVersion: doc.JudgePromptVersion,
	}
	if id, err := uuid.Parse(doc.ID); err == nil {
		record.ID = id
	}
	if m, err := domain.ParseModelIdentifier(doc.Model); err == nil {
		record.Model = m
	}
	if doc.JudgeVerdict != "" {
		verdict := domain.JudgeVerdict{
			Verdict:   domain.Verdict(doc.JudgeVerdict),
			Reasoning: doc.JudgeReasoning,
		}
		if m, err := domain.ParseModelIdentifier(doc.JudgeModel); err == nil {
			verdict.JudgeModel = m
		}
		record.Judge = &verdict
	}
	return record
}
