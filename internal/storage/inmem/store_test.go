package inmem

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
)

func newRecord(prompt string, createdAt time.Time) domain.EvalRecord {
	return domain.EvalRecord{
		ID:        uuid.New(),
		Status:    domain.StatusCompleted,
		Model:     domain.ModelIdentifier{Provider: domain.ProviderGemini, Name: "flash"},
		Prompt:    prompt,
		CreatedAt: createdAt,
	}
}

func TestHistory_AppendAndGet(t *testing.T) {
	store := NewHistory()
	record := newRecord("hello", time.Now())

	require.NoError(t, store.Append(context.Background(), record))

	got, err := store.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Prompt, got.Prompt)
}

func TestHistory_GetMissing(t *testing.T) {
	store := NewHistory()

	_, err := store.Get(context.Background(), uuid.New())

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestHistory_ListNewestFirst(t *testing.T) {
	store := NewHistory()
	base := time.Now()

	for i := 0; i < 5; i++ {
		record := newRecord(fmt.Sprintf("prompt %d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, store.Append(context.Background(), record))
	}

	records, total, err := store.List(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, records, 3)
	assert.Equal(t, "prompt 4", records[0].Prompt)
	assert.Equal(t, "prompt 2", records[2].Prompt)

	rest, _, err := store.List(context.Background(), 2, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "prompt 1", rest[0].Prompt)
}

func TestHistory_ListPastEnd(t *testing.T) {
	store := NewHistory()
	require.NoError(t, store.Append(context.Background(), newRecord("one", time.Now())))

	records, total, err := store.List(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Empty(t, records)
}

func TestHistory_Search(t *testing.T) {
	store := NewHistory()
	now := time.Now()

	matching := newRecord("What is the capital of France?", now)
	matching.ModelOutput = "Paris"
	other := newRecord("Compute 2+2", now.Add(time.Second))
	other.ModelOutput = "4"

	require.NoError(t, store.Append(context.Background(), matching))
	require.NoError(t, store.Append(context.Background(), other))

	records, total, err := store.Search(context.Background(), "france", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, matching.ID, records[0].ID)

	byOutput, _, err := store.Search(context.Background(), "paris", 1, 10)
	require.NoError(t, err)
	require.Len(t, byOutput, 1)
}

func TestPrompts_FirstVersionAlwaysActive(t *testing.T) {
	store := NewPrompts(nil)

	// Explicitly asking for an inactive first version is overridden.
	prompt, err := store.Create(context.Background(), "first", "{{actual}}", "", false)
	require.NoError(t, err)

	assert.Equal(t, int64(1), prompt.Version)
	assert.True(t, prompt.IsActive)
}

func TestPrompts_ExactlyOneActive(t *testing.T) {
	store := NewPrompts(nil)
	ctx := context.Background()

	_, err := store.Create(ctx, "v1", "a", "", true)
	require.NoError(t, err)
	_, err = store.Create(ctx, "v2", "b", "", false)
	require.NoError(t, err)
	v3, err := store.Create(ctx, "v3", "c", "", true)
	require.NoError(t, err)

	assertExactlyOneActive := func(wantVersion int64) {
		t.Helper()
		all, err := store.List(ctx)
		require.NoError(t, err)

		var activeCount int
		for _, p := range all {
			if p.IsActive {
				activeCount++
				assert.Equal(t, wantVersion, p.Version)
			}
		}
		assert.Equal(t, 1, activeCount)

		active, err := store.GetActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, wantVersion, active.Version)
	}

	assertExactlyOneActive(v3.Version)

	require.NoError(t, store.Activate(ctx, 2))
	assertExactlyOneActive(2)

	require.NoError(t, store.Activate(ctx, 1))
	assertExactlyOneActive(1)
}

func TestPrompts_ActivateMissingVersion(t *testing.T) {
	store := NewPrompts(nil)
	_, err := store.Create(context.Background(), "v1", "a", "", true)
	require.NoError(t, err)

	err = store.Activate(context.Background(), 99)

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// The previously active version is untouched.
	active, err := store.GetActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), active.Version)
}

func TestPrompts_VersionsAreMonotonic(t *testing.T) {
	store := NewPrompts(nil)
	ctx := context.Background()

	for want := int64(1); want <= 4; want++ {
		prompt, err := store.Create(ctx, fmt.Sprintf("v%d", want), "t", "", false)
		require.NoError(t, err)
		assert.Equal(t, want, prompt.Version)
	}
}

func TestPrompts_GetMissing(t *testing.T) {
	store := NewPrompts(nil)

	_, err := store.Get(context.Background(), 7)

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestPrompts_StatsFromHistory(t *testing.T) {
	history := NewHistory()
	store := NewPrompts(history)
	ctx := context.Background()

	_, err := store.Create(ctx, "v1", "t", "", true)
	require.NoError(t, err)

	version := int64(1)
	latency := int64(100)
	judgeLatency := int64(50)

	passed := newRecord("a", time.Now())
	passed.Status = domain.StatusPassed
	passed.LatencyMs = &latency
	passed.JudgeLatencyMs = &judgeLatency
	passed.JudgePromptVersion = &version

	failed := newRecord("b", time.Now())
	failed.Status = domain.StatusFailed
	failed.LatencyMs = &latency
	failed.JudgePromptVersion = &version

	unrelated := newRecord("c", time.Now())

	require.NoError(t, history.Append(ctx, passed))
	require.NoError(t, history.Append(ctx, failed))
	require.NoError(t, history.Append(ctx, unrelated))

	stats, err := store.Stats(ctx, version)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalEvaluations)
	assert.Equal(t, int64(1), stats.Passed)
	assert.InDelta(t, 100.0, stats.AvgLatencyMs, 0.001)
	assert.InDelta(t, 50.0, stats.AvgJudgeLatencyMs, 0.001)
}
