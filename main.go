package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"evaluaciones/core"
	"evaluaciones/pkg/resources"
	"evaluaciones/pkg/servers"
)

func main() {
	name, version := "evaluaciones", "1.0"

	// 1. Config + logger
	cfg, err := resources.LoadConfig(name, version)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to load configuration")
	}

	ctx := resources.ConfigureLogger(context.Background(), cfg)
	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Str("zona_horaria", cfg.Location.String()).Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	// 2. Telemetry (traces/metrics/logs), zerolog bridged to OTel logs
	ctx, stopFn, err := resources.Observe(ctx, cfg)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to setup otel telemetry")
	}
	defer stopFn(ctx, 15*time.Second)

	if cfg.OtelEnabled {
		log.Logger = log.Logger.Hook(resources.NewZerologHook(name, version))
		ctx = log.Logger.WithContext(ctx)
	}

	// 3. Database
	pool, err := resources.CreateDatabaseConnectionPool(ctx, cfg)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to create database connection pool")
	}

	err = core.ApplySchema(ctx, pool)
	if err != nil {
		pool.Close()
		shutdownLogger.Fatal().Err(err).Msg("unable to apply database schema")
	}

	// 4. Wiring
	repo := core.NewRepository(pool)
	eventos := core.NewEventValidator(core.WithLocation(cfg.Location))
	handlers := core.NewHandlers(repo, eventos, core.NewEnrollmentValidator())

	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.New()
	restHandler.Use(gin.Recovery())
	restHandler.Use(resources.RequestIDMiddleware())
	restHandler.Use(otelgin.Middleware(name))
	restHandler.Use(resources.MeterMiddleware(name))
	core.RegisterRoutes(restHandler, handlers)

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 5. Servers lifecycle; deferred stops run in reverse, so the pool closes last

	errChan := make(chan error, 16)

	_, stopFn, err = servers.BuildBaseServer(ctx, "base-server", errChan, pool)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to build base server")
	}
	defer stopFn(ctx, 15*time.Second)

	debugServer := servers.NewServer(cfg.HttpHost, cfg.DebugPort, debugHandler)
	_, stopFn, err = servers.BuildHttpServer(ctx, "debug-server", debugServer, errChan)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to build debug server")
	}
	defer stopFn(ctx, 15*time.Second)

	restServer := servers.NewServer(cfg.HttpHost, cfg.HttpPort, restHandler)
	_, stopFn, err = servers.BuildHttpServer(ctx, "rest-server", restServer, errChan)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to build rest server")
	}
	defer stopFn(ctx, 15*time.Second)

	startupLogger.Info().Msg("application running")

	// 6. Wait for shutdown signal

	notifyCtx, cancelNotifyFn := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelNotifyFn()

	select {
	case <-notifyCtx.Done():
		startupLogger.Info().Msg("application shutdown requested")
	case runErr := <-errChan:
		shutdownLogger.Error().Err(runErr).Msg("runtime error")
	}
}
