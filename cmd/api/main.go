package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/api"
	"github.com/wonny/quantdiag/internal/api/handlers"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
	marketrepo "github.com/wonny/quantdiag/internal/infra/database/postgres/market"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/pkg/logger"
	"github.com/wonny/quantdiag/internal/service/analysis"
)

const (
	serviceName    = "quantdiag-api"
	serviceVersion = "1.0.0"
)

func main() {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load timezone")
	}
	time.Local = loc

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := logger.Init(logger.Config{
		Level:          cfg.Logging.Level,
		Format:         cfg.Logging.Format,
		FileEnabled:    cfg.Logging.FileEnabled,
		FilePath:       cfg.Logging.FilePath,
		RotationSize:   cfg.Logging.RotationSize,
		RetentionDays:  cfg.Logging.RetentionDays,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().Str("version", serviceVersion).Msg("Starting quantdiag API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	store, err := cache.New(ctx, cfg.Cache, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache")
	}
	defer store.Close()

	log.Info().Str("backend", cfg.Cache.Backend).Str("version", cfg.Cache.Version).Msg("Indicator cache ready")

	svc := analysis.NewService(analysis.Repositories{
		Bars:       marketrepo.NewBarRepository(dbPool),
		Breadth:    marketrepo.NewBreadthRepository(dbPool),
		Shorts:     marketrepo.NewShortInterestRepository(dbPool),
		Flows:      marketrepo.NewFlowRepository(dbPool),
		Financials: marketrepo.NewFinancialRepository(dbPool),
	}, cfg.Quant, cache.NewLoader(store, cache.NewPolicy(cfg.Cache)), analysis.DefaultLookback())

	health := handlers.NewHealthHandler(dbPool, store, serviceVersion)
	if rs, ok := store.(*cache.RedisStore); ok {
		health.AddCheck("redis", rs.Ping)
	}

	router := api.NewRouter(cfg, api.Dependencies{Analyzer: svc, Health: health})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", addr).Msg("API server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("API server stopped")
}
