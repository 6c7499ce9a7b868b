package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
	marketrepo "github.com/wonny/quantdiag/internal/infra/database/postgres/market"
	"github.com/wonny/quantdiag/internal/infra/external/naver"
	"github.com/wonny/quantdiag/internal/infra/kafka"
	"github.com/wonny/quantdiag/internal/service/analysis"
	"github.com/wonny/quantdiag/internal/service/collector"
)

// env 커맨드 실행 의존성
type env struct {
	pool     *postgres.Pool
	producer *kafka.Producer
}

func openEnv(ctx context.Context) (*env, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{pool: pool}, nil
}

func (e *env) Close() {
	if e.producer != nil {
		if err := e.producer.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close kafka producer")
		}
	}
	e.pool.Close()
}

// analysis 단발 실행이므로 janitor 없는 메모리 캐시 사용
func (e *env) analysis() *analysis.Service {
	store := cache.NewMemoryStore(0)
	return analysis.NewService(analysis.Repositories{
		Bars:       marketrepo.NewBarRepository(e.pool),
		Breadth:    marketrepo.NewBreadthRepository(e.pool),
		Shorts:     marketrepo.NewShortInterestRepository(e.pool),
		Flows:      marketrepo.NewFlowRepository(e.pool),
		Financials: marketrepo.NewFinancialRepository(e.pool),
	}, cfg.Quant, cache.NewLoader(store, cache.NewPolicy(cfg.Cache)), analysis.DefaultLookback())
}

func (e *env) collector() *collector.Service {
	var publisher collector.AlertPublisher
	if cfg.Kafka.Enabled {
		e.producer = kafka.NewProducer(cfg.Kafka)
		publisher = e.producer
	}
	return collector.NewService(naver.NewClient(cfg.Naver), collector.Repositories{
		Bars:       marketrepo.NewBarRepository(e.pool),
		Breadth:    marketrepo.NewBreadthRepository(e.pool),
		Shorts:     marketrepo.NewShortInterestRepository(e.pool),
		Flows:      marketrepo.NewFlowRepository(e.pool),
		Financials: marketrepo.NewFinancialRepository(e.pool),
	}, publisher, cfg.Quant.Regime, cfg.Collector)
}
