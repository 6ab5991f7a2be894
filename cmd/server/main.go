package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"basegraph.app/eleot/common/id"
	"basegraph.app/eleot/common/logger"
	"basegraph.app/eleot/common/otel"
	"basegraph.app/eleot/core/config"
	"basegraph.app/eleot/core/db"
	"basegraph.app/eleot/internal/cache"
	"basegraph.app/eleot/internal/evaluation"
	"basegraph.app/eleot/internal/http/middleware"
	httprouter "basegraph.app/eleot/internal/http/router"
	"basegraph.app/eleot/internal/observability"
	"basegraph.app/eleot/internal/queue"
	"basegraph.app/eleot/internal/service"
	"basegraph.app/eleot/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "eleot server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	if cfg.Worker.EnsureSchema {
		if err := database.EnsureSchema(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to apply schema", "error", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	// Without redis the API still evaluates; it just has no result cache and
	// cannot accept visits.
	var (
		evalCache     cache.EvaluationCache
		visitProducer queue.Producer
	)
	if cfg.Redis.Enabled() {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}

		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Redis.PersistStream)

		visitProducer = queue.NewRedisProducer(redisClient, cfg.Redis.PersistStream, slog.Default())
		defer visitProducer.Close()

		if cfg.Cache.Enabled {
			evalCache = cache.NewRedisCache(redisClient, cfg.Cache.TTL)
			slog.InfoContext(ctx, "evaluation cache enabled", "ttl", cfg.Cache.TTL)
		}
	} else {
		slog.WarnContext(ctx, "redis disabled: no evaluation cache, visit creation unavailable")
	}

	stores := store.NewStores(database.Queries())
	services := service.NewServices(stores, evaluation.New(slog.Default()), evalCache, visitProducer, metrics, slog.Default())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, metrics, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, metrics *observability.Metrics, metricsHandler http.Handler) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(metrics))

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		DebugEnabled:    cfg.Eval.DebugEnabled,
		TraceHeaderName: cfg.Redis.TraceHeaderKey,
		MetricsHandler:  metricsHandler,
	})

	return router
}

const banner = `
███████╗██╗     ███████╗ ██████╗ ████████╗
██╔════╝██║     ██╔════╝██╔═══██╗╚══██╔══╝
█████╗  ██║     █████╗  ██║   ██║   ██║
██╔══╝  ██║     ██╔══╝  ██║   ██║   ██║
███████╗███████╗███████╗╚██████╔╝   ██║
╚══════╝╚══════╝╚══════╝ ╚═════╝    ╚═╝
`
