package analysis

import (
	"context"
	"fmt"

	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/quant/diagnosis"
	"golang.org/x/sync/errgroup"
)

// Diagnose 종목 종합 진단 (캐시 경유)
// 재무, 수급, 일봉 중 어느 것도 없으면 not found.
func (s *Service) Diagnose(ctx context.Context, stockCode string) (*diagnosis.StockDiagnosis, error) {
	return cache.Load(ctx, s.loader, s.key(cache.FamilyDiagnosis, stockCode), func(ctx context.Context) (*diagnosis.StockDiagnosis, error) {
		in := diagnosis.Input{StockCode: stockCode}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			snap, err := s.repos.Financials.GetLatest(gctx, stockCode)
			if market.IsNotFoundError(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get financial %s: %w", stockCode, err)
			}
			in.Financial = snap
			return nil
		})
		g.Go(func() error {
			flows, err := s.optionalFlows(gctx, stockCode)
			in.Flows = flows
			return err
		})
		g.Go(func() error {
			ind, err := s.optionalIndicators(gctx, stockCode)
			in.Indicators = ind
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if in.Financial == nil && len(in.Flows) == 0 && in.Indicators == nil {
			return nil, fmt.Errorf("diagnose %s: %w", stockCode, market.ErrBarsNotFound)
		}
		return s.aggregator.Diagnose(in)
	})
}
