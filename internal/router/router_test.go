package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/domain"
	"github.com/nmilosev/evalgate/internal/judge"
	"github.com/nmilosev/evalgate/internal/provider"
	"github.com/nmilosev/evalgate/internal/runner"
	"github.com/nmilosev/evalgate/internal/storage/inmem"
)

type cannedClient struct{ text string }

func (c cannedClient) Generate(context.Context, string, string) (*provider.Result, error) {
	return &provider.Result{Text: c.text, LatencyMs: 1}, nil
}

func newTestServer(t *testing.T) (*echo.Echo, *inmem.History, *inmem.Prompts) {
	t.Helper()

	registry := provider.NewRegistry(domain.ProviderGemini)
	registry.Register(domain.ProviderGemini, cannedClient{text: "Paris"})
	registry.Register(domain.ProviderOpenAI, cannedClient{text: "Verdict: PASS\nMatches."})

	history := inmem.NewHistory()
	prompts := inmem.NewPrompts(history)
	_, err := judge.EnsurePrompt(context.Background(), prompts)
	require.NoError(t, err)

	executor := runner.NewExecutor(registry, prompts, history)
	coordinator := runner.NewCoordinator(executor)

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	NewEvalRouter(e, executor, coordinator, history, registry, WithSearcher(history)).Bind()
	NewPromptRouter(e, prompts).Bind()

	return e, history, prompts
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRunEndpoint(t *testing.T) {
	e, history, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/evals/run", `{
		"model": "gemini:gemini-2.0-flash",
		"prompt": "What is the capital of France?",
		"expected": "Paris",
		"judge_model": "openai:gpt-4o"
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var record domain.EvalRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, domain.StatusPassed, record.Status)
	assert.Equal(t, "Paris", record.ModelOutput)
	require.NotNil(t, record.Judge)
	assert.Equal(t, domain.VerdictPass, record.Judge.Verdict)

	_, err := history.Get(context.Background(), record.ID)
	assert.NoError(t, err)
}

func TestRunEndpoint_ValidationError(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/evals/run", `{"model": "gemini:flash"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/evals/run", `{"model": "nope:thing", "prompt": "hi"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown provider")
}

func TestBatchEndpoint(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/evals/batch", `{
		"evals": [
			{"model": "gemini:flash", "prompt": "a"},
			{"model": "gemini:flash", "prompt": "b"}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary domain.BatchSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Completed)
	require.Len(t, summary.Results, 2)
}

func TestBatchEndpoint_Empty(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/evals/batch", `{"evals": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	e, _, _ := newTestServer(t)

	for _, prompt := range []string{"first question", "second question"} {
		rec := doJSON(e, http.MethodPost, "/api/v1/evals/run",
			`{"model": "gemini:flash", "prompt": "`+prompt+`"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(e, http.MethodGet, "/api/v1/evals/history?page=1&size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Items []domain.EvalRecord `json:"items"`
		Total int64               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(2), result.Total)

	rec = doJSON(e, http.MethodGet, "/api/v1/evals/history?query=second", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, int64(1), result.Total)
}

func TestGetEvalEndpoint_NotFound(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/evals/0e0f7c51-5f4c-4a3e-9a44-000000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/evals/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJudgePromptEndpoints(t *testing.T) {
	e, _, _ := newTestServer(t)

	// The seeded default is active.
	rec := doJSON(e, http.MethodGet, "/api/v1/judge-prompts/active", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var active domain.JudgePromptVersion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Equal(t, int64(1), active.Version)

	rec = doJSON(e, http.MethodPost, "/api/v1/judge-prompts", `{
		"name": "strict",
		"template": "Compare {{expected}} with {{actual}}. Verdict: PASS or FAIL.",
		"set_active": true
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.JudgePromptVersion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(2), created.Version)
	assert.True(t, created.IsActive)

	rec = doJSON(e, http.MethodPut, "/api/v1/judge-prompts/active", `{"version": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reactivated domain.JudgePromptVersion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reactivated))
	assert.Equal(t, int64(1), reactivated.Version)
	assert.True(t, reactivated.IsActive)

	rec = doJSON(e, http.MethodPut, "/api/v1/judge-prompts/active", `{"version": 99}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/judge-prompts", `{"name": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/v1/judge-prompts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var all []domain.JudgePromptVersion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)
}

func TestModelsEndpoint(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/models", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"gemini", "openai"}, resp["providers"])
}
