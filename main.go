package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cantrip-core/server/internal/agent/collaborators"
	"github.com/cantrip-core/server/internal/agent/graph"
	"github.com/cantrip-core/server/internal/agent/model"
	"github.com/cantrip-core/server/internal/agent/tools"
	"github.com/cantrip-core/server/internal/api"
	"github.com/cantrip-core/server/internal/core"
	"github.com/cantrip-core/server/internal/evallog"
	"github.com/cantrip-core/server/internal/metrics"
	"github.com/cantrip-core/server/internal/telemetry"
	logx "github.com/cantrip-core/server/pkg/logger"
	pkgredis "github.com/cantrip-core/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment core.Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string           `envconfig:"LOG_LEVEL"`
	HTTPAddr    string           `envconfig:"HTTP_ADDR" default:":8000"`

	// Infrastructure
	Redis     pkgredis.Config
	Telemetry model.TelemetryConfig
	Eval      model.EvalConfig

	// LLM provider. Without a key every generation uses its fallback.
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Router        model.RouterConfig
	Gather        model.GatherConfig
	Scheduler     model.SchedulerConfig
	Collaborators model.CollaboratorConfig
	Conversation  model.ConversationConfig
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("Could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel})

	if err := run(cfg); err != nil {
		logx.Fatal().Err(err).Msg("Server exited")
	}
}

// run wires the service and blocks until the server stops. Deferred cleanup
// completes before it returns, so callers may exit on error.
func run(cfg AppConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initialise telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logx.Warn().Err(err).Msg("Tracer shutdown failed")
		}
	}()

	registry, closeCache, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	m := metrics.New()
	recorders := []graph.RunRecorder{m}
	if cfg.Eval.LogPath != "" {
		rec, err := evallog.Open(cfg.Eval.LogPath)
		if err != nil {
			return fmt.Errorf("open evaluation log: %w", err)
		}
		defer rec.Close()
		recorders = append(recorders, rec)
	}

	runner, err := graph.BuildTravelGraph(ctx, graph.Config{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		Router:       cfg.Router,
		Scheduler:    cfg.Scheduler,
		Gather:       cfg.Gather,
		Conversation: cfg.Conversation,
		Adapters:     registry,
		Tracer:       telemetry.Tracer("github.com/cantrip-core/server/internal/agent/graph/nodes"),
		Observer:     m,
		Recorder:     graph.MultiRecorder(recorders...),
	})
	if err != nil {
		return fmt.Errorf("build travel graph: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(api.NewHandler(runner, tools.New(registry), nil), m),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logx.Info().Msg("Shutting down gracefully")
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logx.Error().Err(err).Msg("HTTP shutdown failed")
		}
	}()

	logx.Info().
		Str("addr", cfg.HTTPAddr).
		Str("environment", cfg.Environment.String()).
		Msg("Travel agent listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// buildRegistry creates the collaborator adapters, fronted by the redis cache
// when REDIS_URL is set and reachable.
func buildRegistry(ctx context.Context, cfg AppConfig) (*collaborators.Registry, func(), error) {
	catalog, err := collaborators.DefaultCatalog()
	if err != nil {
		return nil, nil, fmt.Errorf("load city catalog: %w", err)
	}
	adapters := []collaborators.Adapter{
		collaborators.NewWeather(cfg.Collaborators),
		collaborators.NewEvents(cfg.Collaborators),
		collaborators.NewAttractions(catalog),
		collaborators.NewRecommendations(catalog),
		collaborators.NewPlanning(),
	}

	closeFn := func() {}
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			logx.Warn().Err(err).Msg("Redis unavailable, collaborator cache disabled")
		} else {
			adapters = collaborators.WithCache(rdb, cfg.Collaborators.CacheTTL, adapters...)
			closeFn = func() { _ = rdb.Close() }
			logx.Info().Dur("ttl", cfg.Collaborators.CacheTTL).Msg("Collaborator cache enabled")
		}
	}
	return collaborators.NewRegistry(adapters...), closeFn, nil
}
