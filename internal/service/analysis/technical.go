package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/quant/technical"
)

// Indicators 종목 기술적 지표 (캐시 경유)
func (s *Service) Indicators(ctx context.Context, stockCode string) (*technical.Indicators, error) {
	return cache.Load(ctx, s.loader, s.key(cache.FamilyTechnical, stockCode), func(ctx context.Context) (*technical.Indicators, error) {
		return s.computeIndicators(ctx, stockCode)
	})
}

func (s *Service) computeIndicators(ctx context.Context, stockCode string) (*technical.Indicators, error) {
	bars, err := s.repos.Bars.GetRecent(ctx, stockCode, s.lookback.BarDays)
	if err != nil {
		return nil, fmt.Errorf("get bars %s: %w", stockCode, err)
	}

	ind, err := s.calculator.Calculate(stockCode, bars)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("stock_code", stockCode).
		Int("bars", len(bars)).
		Str("signal", string(ind.OverallSignal)).
		Int("strength", ind.BuySignalStrength).
		Msg("Indicators calculated")

	return ind, nil
}
