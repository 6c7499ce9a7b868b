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
	"github.com/wonny/quantdiag/internal/api/router"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
	marketrepo "github.com/wonny/quantdiag/internal/infra/database/postgres/market"
	"github.com/wonny/quantdiag/internal/infra/external/naver"
	"github.com/wonny/quantdiag/internal/infra/kafka"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/pkg/logger"
	"github.com/wonny/quantdiag/internal/service/collector"
)

const (
	serviceName    = "quantdiag-collector"
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

	log.Info().
		Str("run_at", cfg.Collector.RunAt).
		Int("stocks", len(cfg.Collector.StockCodes)).
		Msg("Starting quantdiag collector")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ========================================
	// Infrastructure
	// ========================================

	dbPool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	crawler := naver.NewClient(cfg.Naver)
	if err := crawler.HealthCheck(ctx); err != nil {
		// 네이버 장애 시에도 기동은 계속, 수집 시점에 재시도
		log.Warn().Err(err).Msg("Naver health check failed")
	}

	var publisher collector.AlertPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close kafka producer")
			}
		}()
		publisher = producer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", producer.Topic()).Msg("Regime alerts enabled")
	} else {
		log.Info().Msg("Kafka disabled, regime alerts are logged only")
	}

	// ========================================
	// Collector
	// ========================================

	svc := collector.NewService(crawler, collector.Repositories{
		Bars:       marketrepo.NewBarRepository(dbPool),
		Breadth:    marketrepo.NewBreadthRepository(dbPool),
		Shorts:     marketrepo.NewShortInterestRepository(dbPool),
		Flows:      marketrepo.NewFlowRepository(dbPool),
		Financials: marketrepo.NewFinancialRepository(dbPool),
	}, publisher, cfg.Quant.Regime, cfg.Collector)

	if err := svc.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start collector scheduler")
	}
	defer svc.Stop()

	// ========================================
	// HTTP Server
	// ========================================

	addr := fmt.Sprintf(":%s", cfg.Collector.Port)
	server := &http.Server{
		Addr: addr,
		Handler: router.NewRouter(ctx, &router.Config{
			Collector: svc,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", addr).Msg("Collector server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start collector server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutdown signal received, stopping collector...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	cancel()

	log.Info().Msg("Collector stopped")
}
