package analysis

import (
	"context"
	"fmt"

	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/quant/screener"
)

// snapshotPeriods 턴어라운드 비교에 필요한 종목별 기간 수
const snapshotPeriods = 2

// MagicFormula 마법의 공식 스크리닝
func (s *Service) MagicFormula(ctx context.Context, p screener.MagicFormulaParams) (screener.Result[screener.MagicFormulaResult], error) {
	key := s.key(cache.FamilyScreener, fmt.Sprintf("magic:%s:%d", p.MinMarketCap.String(), p.Limit))
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) (screener.Result[screener.MagicFormulaResult], error) {
		snaps, err := s.snapshots(ctx)
		if err != nil {
			return screener.Result[screener.MagicFormulaResult]{}, err
		}
		return screener.MagicFormula(snaps, p), nil
	})
}

// PEG PEG 스크리닝
func (s *Service) PEG(ctx context.Context, p screener.PEGParams) (screener.Result[screener.PEGResult], error) {
	key := s.key(cache.FamilyScreener, fmt.Sprintf("peg:%g:%g:%d", p.MaxPEG, p.MinEPSGrowth, p.Limit))
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) (screener.Result[screener.PEGResult], error) {
		snaps, err := s.snapshots(ctx)
		if err != nil {
			return screener.Result[screener.PEGResult]{}, err
		}
		return screener.PEG(snaps, p), nil
	})
}

// Turnaround 턴어라운드 스크리닝
func (s *Service) Turnaround(ctx context.Context, p screener.TurnaroundParams) (screener.Result[screener.TurnaroundResult], error) {
	key := s.key(cache.FamilyScreener, fmt.Sprintf("turnaround:%g:%d", p.MinGrowthRate, p.Limit))
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) (screener.Result[screener.TurnaroundResult], error) {
		snaps, err := s.snapshots(ctx)
		if err != nil {
			return screener.Result[screener.TurnaroundResult]{}, err
		}
		return screener.Turnaround(snaps, p), nil
	})
}

// ScreenerSummary 세 스크리너 상위 종목 요약
func (s *Service) ScreenerSummary(ctx context.Context) (screener.Summary, error) {
	return cache.Load(ctx, s.loader, s.key(cache.FamilyScreener, "summary"), func(ctx context.Context) (screener.Summary, error) {
		snaps, err := s.snapshots(ctx)
		if err != nil {
			return screener.Summary{}, err
		}
		return screener.Summarize(snaps, s.screenCfg), nil
	})
}

func (s *Service) snapshots(ctx context.Context) ([]market.FinancialSnapshot, error) {
	snaps, err := s.repos.Financials.ListRecentPerStock(ctx, snapshotPeriods)
	if err != nil {
		return nil, fmt.Errorf("list financial snapshots: %w", err)
	}
	return snaps, nil
}
