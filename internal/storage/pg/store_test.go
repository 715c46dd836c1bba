package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
	pkgtesting "github.com/nmilosev/evalgate/pkg/testing"
)

var (
	testCtx     context.Context
	testPool    *ConnectionPool
	testHistory *History
	testPrompts *Prompts
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "evalgate_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}

	testHistory = NewHistory(testPool)
	testPrompts = NewPrompts(testPool)

	code := m.Run()

	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE evaluations")
	require.NoError(t, err)
	_, err = testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE judge_prompts RESTART IDENTITY")
	require.NoError(t, err)
}

func sampleRecord() domain.EvalRecord {
	latency := int64(120)
	judgeLatency := int64(80)
	inTokens := int64(10)
	outTokens := int64(4)
	version := int64(1)

	return domain.EvalRecord{
		ID:          uuid.New(),
		Status:      domain.StatusPassed,
		Model:       domain.ModelIdentifier{Provider: domain.ProviderGemini, Name: "gemini-2.0-flash"},
		Prompt:      "What is the capital of France?",
		ModelOutput: "Paris",
		Expected:    "Paris",
		Judge: &domain.JudgeVerdict{
			Verdict:    domain.VerdictPass,
			Reasoning:  "Exact match.",
			JudgeModel: domain.ModelIdentifier{Provider: domain.ProviderOpenAI, Name: "gpt-4o"},
		},
		LatencyMs:          &latency,
		JudgeLatencyMs:     &judgeLatency,
		InputTokens:        &inTokens,
		OutputTokens:       &outTokens,
		Tags:               []string{"geography"},
		Metadata:           map[string]string{"suite": "capitals"},
		CreatedAt:          time.Now().UTC().Truncate(time.Millisecond),
		JudgePromptVersion: &version,
	}
}

func TestHistory_AppendAndGet(t *testing.T) {
	truncateTables(t)

	record := sampleRecord()
	require.NoError(t, testHistory.Append(testCtx, record))

	got, err := testHistory.Get(testCtx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, domain.StatusPassed, got.Status)
	assert.Equal(t, record.Model, got.Model)
	assert.Equal(t, record.Prompt, got.Prompt)
	assert.Equal(t, record.ModelOutput, got.ModelOutput)
	require.NotNil(t, got.Judge)
	assert.Equal(t, domain.VerdictPass, got.Judge.Verdict)
	assert.Equal(t, record.Judge.JudgeModel, got.Judge.JudgeModel)
	require.NotNil(t, got.LatencyMs)
	assert.Equal(t, int64(120), *got.LatencyMs)
	assert.Equal(t, record.Tags, got.Tags)
	assert.Equal(t, record.Metadata, got.Metadata)
	require.NotNil(t, got.JudgePromptVersion)
	assert.Equal(t, int64(1), *got.JudgePromptVersion)
}

func TestHistory_AppendErrorRecord(t *testing.T) {
	truncateTables(t)

	record := domain.EvalRecord{
		ID:        uuid.New(),
		Status:    domain.StatusError,
		Model:     domain.ModelIdentifier{Provider: domain.ProviderOllama, Name: "llama3"},
		Prompt:    "hello",
		Error:     "ollama: request failed (unreachable)",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, testHistory.Append(testCtx, record))

	got, err := testHistory.Get(testCtx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusError, got.Status)
	assert.Equal(t, record.Error, got.Error)
	assert.Nil(t, got.Judge)
	assert.Nil(t, got.LatencyMs)
}

func TestHistory_GetMissing(t *testing.T) {
	truncateTables(t)

	_, err := testHistory.Get(testCtx, uuid.New())

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestHistory_ListPagination(t *testing.T) {
	truncateTables(t)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		record := sampleRecord()
		record.JudgePromptVersion = nil
		record.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, testHistory.Append(testCtx, record))
	}

	records, total, err := testHistory.List(testCtx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, records, 2)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))

	lastPage, _, err := testHistory.List(testCtx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, lastPage, 1)
}

func TestPrompts_CreateFirstIsActive(t *testing.T) {
	truncateTables(t)

	prompt, err := testPrompts.Create(testCtx, "v1", "{{actual}}", "first", false)
	require.NoError(t, err)

	assert.Equal(t, int64(1), prompt.Version)
	assert.True(t, prompt.IsActive)
	assert.Equal(t, "first", prompt.Description)
}

func TestPrompts_ActivationIsExclusive(t *testing.T) {
	truncateTables(t)

	_, err := testPrompts.Create(testCtx, "v1", "a", "", true)
	require.NoError(t, err)
	_, err = testPrompts.Create(testCtx, "v2", "b", "", true)
	require.NoError(t, err)

	require.NoError(t, testPrompts.Activate(testCtx, 1))

	all, err := testPrompts.List(testCtx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	var activeVersions []int64
	for _, p := range all {
		if p.IsActive {
			activeVersions = append(activeVersions, p.Version)
		}
	}
	assert.Equal(t, []int64{1}, activeVersions)

	active, err := testPrompts.GetActive(testCtx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active.Version)
}

func TestPrompts_ActivateMissing(t *testing.T) {
	truncateTables(t)

	_, err := testPrompts.Create(testCtx, "v1", "a", "", true)
	require.NoError(t, err)

	err = testPrompts.Activate(testCtx, 42)

	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestPrompts_Stats(t *testing.T) {
	truncateTables(t)

	created, err := testPrompts.Create(testCtx, "v1", "a", "", true)
	require.NoError(t, err)

	passed := sampleRecord()
	passed.JudgePromptVersion = &created.Version

	failed := sampleRecord()
	failed.ID = uuid.New()
	failed.Status = domain.StatusFailed
	failed.JudgePromptVersion = &created.Version

	require.NoError(t, testHistory.Append(testCtx, passed))
	require.NoError(t, testHistory.Append(testCtx, failed))

	stats, err := testPrompts.Stats(testCtx, created.Version)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalEvaluations)
	assert.Equal(t, int64(1), stats.Passed)
	assert.InDelta(t, 120.0, stats.AvgLatencyMs, 0.001)
	assert.InDelta(t, 80.0, stats.AvgJudgeLatencyMs, 0.001)
}
