package router

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/dto"
	"github.com/nmilosev/evalgate/internal/provider"
	"github.com/nmilosev/evalgate/internal/runner"
	"github.com/nmilosev/evalgate/internal/storage"
	"github.com/nmilosev/evalgate/pkg/pagination"
)

type EvalRouter struct {
	e           *echo.Echo
	executor    *runner.Executor
	coordinator *runner.Coordinator
	history     storage.HistoryStore
	registry    *provider.Registry

	// searcher is set only for backends with full-text capability.
	searcher storage.HistorySearcher
}

type EvalRouterOption func(*EvalRouter)

func WithSearcher(s storage.HistorySearcher) EvalRouterOption {
	return func(r *EvalRouter) {
		r.searcher = s
	}
}

func NewEvalRouter(
	e *echo.Echo,
	executor *runner.Executor,
	coordinator *runner.Coordinator,
	history storage.HistoryStore,
	registry *provider.Registry,
	opts ...EvalRouterOption,
) *EvalRouter {
	r := &EvalRouter{
		e:           e,
		executor:    executor,
		coordinator: coordinator,
		history:     history,
		registry:    registry,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *EvalRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.POST("/evals/run", r.runHandler)
	g.POST("/evals/batch", r.batchHandler)
	g.GET("/evals/history", r.historyHandler)
	g.GET("/evals/:id", r.getHandler)
	g.GET("/models", r.modelsHandler)
}

// runHandler executes a single evaluation
// @Summary Run one evaluation
// @Description Calls the subject model and optionally grades the output with a judge model
// @Tags evals
// @Accept json
// @Produce json
// @Param request body dto.RunEvalRequest true "Evaluation request"
// @Success 200 {object} domain.EvalRecord
// @Failure 400 {object} map[string]string
// @Router /api/v1/evals/run [post]
func (r *EvalRouter) runHandler(c echo.Context) error {
	var req dto.RunEvalRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	evalReq, err := req.ToDomain()
	if err != nil {
		return err
	}

	record, err := r.executor.Run(c.Request().Context(), evalReq)
	if err != nil {
		// The evaluation itself succeeded when only durability failed;
		// the caller still gets the record.
		var persistenceErr *apperr.PersistenceError
		if record == nil || !errors.As(err, &persistenceErr) {
			return err
		}
	}

	return c.JSON(http.StatusOK, record)
}

// batchHandler executes a batch of evaluations
// @Summary Run a batch of evaluations
// @Description Runs all requests over a bounded worker pool and reduces them to a summary
// @Tags evals
// @Accept json
// @Produce json
// @Param request body dto.BatchEvalRequest true "Batch request"
// @Success 200 {object} domain.BatchSummary
// @Failure 400 {object} map[string]string
// @Router /api/v1/evals/batch [post]
func (r *EvalRouter) batchHandler(c echo.Context) error {
	var req dto.BatchEvalRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if len(req.Evals) == 0 {
		return apperr.NewValidation("evals must not be empty")
	}

	requests, err := req.ToDomain()
	if err != nil {
		return err
	}

	summary := r.coordinator.RunBatch(c.Request().Context(), requests)
	return c.JSON(http.StatusOK, summary)
}

// historyHandler lists past evaluations
// @Summary List evaluation history
// @Tags evals
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Param query query string false "Full-text search over prompts and outputs"
// @Success 200 {object} pagination.OffsetResult[domain.EvalRecord]
// @Router /api/v1/evals/history [get]
func (r *EvalRouter) historyHandler(c echo.Context) error {
	var pageReq pagination.OffsetRequest
	if err := c.Bind(&pageReq); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	if err := pageReq.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}

	query := c.QueryParam("query")
	if query != "" {
		if r.searcher == nil {
			return apperr.NewValidation("search is not supported by the configured storage backend")
		}
		items, total, err := r.searcher.Search(c.Request().Context(), query, pageReq.Page, pageReq.Size)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pagination.NewOffsetResult(items, total, pageReq.Page, pageReq.Size))
	}

	items, total, err := r.history.List(c.Request().Context(), pageReq.Page, pageReq.Size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewOffsetResult(items, total, pageReq.Page, pageReq.Size))
}

// getHandler fetches one evaluation by id
// @Summary Get one evaluation
// @Tags evals
// @Produce json
// @Param id path string true "Evaluation id"
// @Success 200 {object} domain.EvalRecord
// @Failure 404 {object} map[string]string
// @Router /api/v1/evals/{id} [get]
func (r *EvalRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid evaluation id", err)
	}

	record, err := r.history.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, record)
}

// modelsHandler lists the providers the service can route to
// @Summary List configured providers
// @Tags evals
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/models [get]
func (r *EvalRouter) modelsHandler(c echo.Context) error {
	providers := r.registry.Providers()
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, string(p))
	}
	return c.JSON(http.StatusOK, map[string][]string{"providers": names})
}
