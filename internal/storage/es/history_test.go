package es

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
	pkgtesting "github.com/nmilosev/evalgate/pkg/testing"
)

func newRecord(prompt, output string) domain.EvalRecord {
	latency := int64(75)
	return domain.EvalRecord{
		ID:          uuid.New(),
		Status:      domain.StatusCompleted,
		Model:       domain.ModelIdentifier{Provider: domain.ProviderGemini, Name: "gemini-2.0-flash"},
		Prompt:      prompt,
		ModelOutput: output,
		LatencyMs:   &latency,
		Tags:        []string{"smoke"},
		Metadata:    map[string]string{"suite": "integration"},
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestHistory_Elasticsearch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	container := pkgtesting.NewESContainer(ctx, t)

	history, err := NewHistory(ctx, ClientConfig{
		Addresses: []string{container.Address},
		IndexName: "evaluations-test",
	})
	require.NoError(t, err)

	t.Run("append and get", func(t *testing.T) {
		record := newRecord("capital of France?", "Paris")
		judgeLatency := int64(40)
		version := int64(1)
		record.Judge = &domain.JudgeVerdict{
			JudgeModel: domain.ModelIdentifier{Provider: domain.ProviderOpenAI, Name: "gpt-4o"},
			Verdict:    domain.VerdictPass,
			Reasoning:  "Exact match.",
		}
		record.JudgeLatencyMs = &judgeLatency
		record.JudgePromptVersion = &version

		require.NoError(t, history.Append(ctx, record))

		got, err := history.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		assert.Equal(t, "gemini:gemini-2.0-flash", got.Model.String())
		assert.Equal(t, "Paris", got.ModelOutput)
		require.NotNil(t, got.LatencyMs)
		assert.Equal(t, int64(75), *got.LatencyMs)
		require.NotNil(t, got.Judge)
		assert.Equal(t, domain.VerdictPass, got.Judge.Verdict)
		assert.Equal(t, "openai:gpt-4o", got.Judge.JudgeModel.String())
		require.NotNil(t, got.JudgePromptVersion)
		assert.Equal(t, int64(1), *got.JudgePromptVersion)
		assert.Equal(t, map[string]string{"suite": "integration"}, got.Metadata)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := history.Get(ctx, uuid.New())
		var notFound *apperr.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("list newest first", func(t *testing.T) {
		base := time.Now().UTC().Truncate(time.Millisecond)
		for i := 0; i < 3; i++ {
			record := newRecord("list prompt", "list output")
			record.CreatedAt = base.Add(time.Duration(i) * time.Second)
			require.NoError(t, history.Append(ctx, record))
		}
		require.NoError(t, history.Refresh(ctx))

		records, total, err := history.List(ctx, 1, 100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, int64(3))
		for i := 1; i < len(records); i++ {
			assert.False(t, records[i-1].CreatedAt.Before(records[i].CreatedAt),
				"records must be sorted newest first")
		}
	})

	t.Run("full text search", func(t *testing.T) {
		record := newRecord("Summarize the quarterly earnings report", "Revenue grew 12 percent")
		require.NoError(t, history.Append(ctx, record))
		require.NoError(t, history.Refresh(ctx))

		records, total, err := history.Search(ctx, "quarterly earnings", 1, 10)
		require.NoError(t, err)
		require.GreaterOrEqual(t, total, int64(1))
		assert.Equal(t, record.ID, records[0].ID)

		_, total, err = history.Search(ctx, "completely unrelated gibberish zzyzx", 1, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}
