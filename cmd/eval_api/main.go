// Package main EvalGate API
// @title EvalGate API
// @version 1.0
// @description An evaluation orchestration service for LLM outputs with judge-model grading
// @contact.name API Support
// @contact.email support@evalgate.dev
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"

	_ "github.com/nmilosev/evalgate/docs"
	"github.com/nmilosev/evalgate/internal/broadcast"
	"github.com/nmilosev/evalgate/internal/judge"
	"github.com/nmilosev/evalgate/internal/provider"
	"github.com/nmilosev/evalgate/internal/router"
	"github.com/nmilosev/evalgate/internal/runner"
	"github.com/nmilosev/evalgate/internal/server"
	"github.com/nmilosev/evalgate/internal/storage"
	"github.com/nmilosev/evalgate/internal/storage/factory"
	"github.com/nmilosev/evalgate/internal/storage/pg"
	pkgserver "github.com/nmilosev/evalgate/pkg/server"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage config", "error", err)
		os.Exit(1)
	}

	providerCfg, err := provider.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load provider config", "error", err)
		os.Exit(1)
	}

	registry, err := providerCfg.BuildRegistry()
	if err != nil {
		slog.Error("Failed to build provider registry", "error", err)
		os.Exit(1)
	}

	healthChecker := pkgserver.NewOkHealthChecker()

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupOpenApi("/swagger/*")

	stores, err := factory.New(s.Context(), storageCfg)
	if err != nil {
		slog.Error("Failed to create stores", "error", err)
		os.Exit(1)
	}
	if stores.Pool != nil {
		s = s.WithHealthChecker(pg.NewHealthChecker(stores.Pool))
	}
	s.SetupHealthChecks("/api/v1/health")

	seeded, err := judge.EnsurePrompt(s.Context(), stores.Prompts)
	if err != nil {
		slog.Error("Failed to seed judge prompt store", "error", err)
		os.Exit(1)
	}
	slog.Info("Active judge prompt", "version", seeded.Version, "name", seeded.Name)

	broadcaster := broadcast.New()
	executor := runner.NewExecutor(registry, stores.Prompts, stores.History,
		runner.WithPublisher(broadcaster))
	coordinator := runner.NewCoordinator(executor)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "EvalGate API is running")
	})

	var evalOpts []router.EvalRouterOption
	if searcher, ok := stores.History.(storage.HistorySearcher); ok {
		evalOpts = append(evalOpts, router.WithSearcher(searcher))
	}

	router.NewEvalRouter(s.Echo, executor, coordinator, stores.History, registry, evalOpts...).Bind()
	router.NewPromptRouter(s.Echo, stores.Prompts).Bind()
	router.NewWsRouter(s.Echo, broadcaster).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		broadcaster.Close()
		if stores.Pool != nil {
			stores.Pool.Close()
		}
	}()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
