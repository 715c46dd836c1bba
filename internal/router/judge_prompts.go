package router

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nmilosev/evalgate/internal/apperr"
	"github.com/nmilosev/evalgate/internal/dto"
	"github.com/nmilosev/evalgate/internal/storage"
)

type PromptRouter struct {
	e     *echo.Echo
	store storage.PromptStore
}

func NewPromptRouter(e *echo.Echo, store storage.PromptStore) *PromptRouter {
	return &PromptRouter{e: e, store: store}
}

func (r *PromptRouter) Bind() {
	g := r.e.Group("/api/v1/judge-prompts")
	g.GET("", r.listHandler)
	g.POST("", r.createHandler)
	g.GET("/active", r.getActiveHandler)
	g.PUT("/active", r.setActiveHandler)
	g.GET("/:version", r.getHandler)
	g.GET("/:version/stats", r.statsHandler)
}

// listHandler returns every judge prompt version
// @Summary List judge prompt versions
// @Tags judge-prompts
// @Produce json
// @Success 200 {array} domain.JudgePromptVersion
// @Router /api/v1/judge-prompts [get]
func (r *PromptRouter) listHandler(c echo.Context) error {
	prompts, err := r.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prompts)
}

// createHandler stores a new judge prompt version
// @Summary Create a judge prompt version
// @Tags judge-prompts
// @Accept json
// @Produce json
// @Param request body dto.CreatePromptRequest true "Prompt template"
// @Success 201 {object} domain.JudgePromptVersion
// @Failure 400 {object} map[string]string
// @Router /api/v1/judge-prompts [post]
func (r *PromptRouter) createHandler(c echo.Context) error {
	var req dto.CreatePromptRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if req.Name == "" {
		return apperr.NewValidation("name is required")
	}
	if req.Template == "" {
		return apperr.NewValidation("template is required")
	}

	prompt, err := r.store.Create(c.Request().Context(), req.Name, req.Template, req.Description, req.SetActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, prompt)
}

// getActiveHandler returns the active judge prompt
// @Summary Get the active judge prompt
// @Tags judge-prompts
// @Produce json
// @Success 200 {object} domain.JudgePromptVersion
// @Failure 404 {object} map[string]string
// @Router /api/v1/judge-prompts/active [get]
func (r *PromptRouter) getActiveHandler(c echo.Context) error {
	prompt, err := r.store.GetActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prompt)
}

// setActiveHandler switches the active judge prompt version
// @Summary Activate a judge prompt version
// @Tags judge-prompts
// @Accept json
// @Produce json
// @Param request body dto.SetActivePromptRequest true "Version to activate"
// @Success 200 {object} domain.JudgePromptVersion
// @Failure 404 {object} map[string]string
// @Router /api/v1/judge-prompts/active [put]
func (r *PromptRouter) setActiveHandler(c echo.Context) error {
	var req dto.SetActivePromptRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if req.Version < 1 {
		return apperr.NewValidation("version must be a positive integer")
	}

	if err := r.store.Activate(c.Request().Context(), req.Version); err != nil {
		return err
	}

	prompt, err := r.store.Get(c.Request().Context(), req.Version)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prompt)
}

// getHandler returns one judge prompt version
// @Summary Get a judge prompt version
// @Tags judge-prompts
// @Produce json
// @Param version path int true "Prompt version"
// @Success 200 {object} domain.JudgePromptVersion
// @Failure 404 {object} map[string]string
// @Router /api/v1/judge-prompts/{version} [get]
func (r *PromptRouter) getHandler(c echo.Context) error {
	version, err := parseVersion(c.Param("version"))
	if err != nil {
		return err
	}

	prompt, err := r.store.Get(c.Request().Context(), version)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, prompt)
}

// statsHandler aggregates evaluation outcomes per prompt version
// @Summary Get usage stats for a judge prompt version
// @Tags judge-prompts
// @Produce json
// @Param version path int true "Prompt version"
// @Success 200 {object} domain.PromptStats
// @Router /api/v1/judge-prompts/{version}/stats [get]
func (r *PromptRouter) statsHandler(c echo.Context) error {
	version, err := parseVersion(c.Param("version"))
	if err != nil {
		return err
	}

	stats, err := r.store.Stats(c.Request().Context(), version)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func parseVersion(raw string) (int64, error) {
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 1 {
		return 0, apperr.NewValidation("version must be a positive integer")
	}
	return version, nil
}
