package analysis

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/quant/squeeze"
	"github.com/wonny/quantdiag/internal/quant/technical"
	"golang.org/x/sync/errgroup"
)

// Squeeze 종목 숏스퀴즈 평가 (캐시 경유)
func (s *Service) Squeeze(ctx context.Context, stockCode string) (*squeeze.Assessment, error) {
	return cache.Load(ctx, s.loader, s.key(cache.FamilySqueeze, stockCode), func(ctx context.Context) (*squeeze.Assessment, error) {
		in, err := s.squeezeInput(ctx, stockCode)
		if err != nil {
			return nil, err
		}
		return s.scorer.Assess(in)
	})
}

// SqueezeCandidates 최근 공매도 기록이 있는 종목을 평가해 minScore 이상을 점수순으로 반환
func (s *Service) SqueezeCandidates(ctx context.Context, minScore, limit int) ([]*squeeze.Assessment, error) {
	key := s.key(cache.FamilySqueeze, fmt.Sprintf("candidates:%d:%d", minScore, limit))
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) ([]*squeeze.Assessment, error) {
		since := s.today().AddDate(0, 0, -s.lookback.ScanSinceDays)
		codes, err := s.repos.Shorts.ListStockCodes(ctx, since)
		if err != nil {
			return nil, fmt.Errorf("list short interest codes: %w", err)
		}

		var mu sync.Mutex
		inputs := make([]squeeze.Input, 0, len(codes))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(s.lookback.ScanWorkers, 1))
		for _, code := range codes {
			g.Go(func() error {
				in, err := s.squeezeInput(gctx, code)
				if err != nil {
					if market.IsNotFoundError(err) {
						return nil
					}
					return err
				}
				mu.Lock()
				inputs = append(inputs, in)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		results, err := s.scorer.Scan(inputs, minScore, limit)
		if err != nil {
			return nil, err
		}

		log.Info().
			Int("scanned", len(inputs)).
			Int("candidates", len(results)).
			Int("min_score", minScore).
			Msg("Squeeze scan completed")

		return results, nil
	})
}

// squeezeInput 공매도 이력, 외국인 수급, 기술적 지표를 동시에 조회
// 수급과 지표는 선택 입력이므로 없으면 비워 둔다.
func (s *Service) squeezeInput(ctx context.Context, stockCode string) (squeeze.Input, error) {
	in := squeeze.Input{StockCode: stockCode}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := s.repos.Shorts.GetRecent(gctx, stockCode, s.lookback.ShortDays)
		if err != nil {
			return fmt.Errorf("get short interest %s: %w", stockCode, err)
		}
		in.Records = records
		return nil
	})
	g.Go(func() error {
		flows, err := s.optionalFlows(gctx, stockCode)
		if err != nil {
			return err
		}
		in.ForeignNetBuy = make([]int64, len(flows))
		for i, f := range flows {
			in.ForeignNetBuy[i] = f.ForeignNet()
		}
		return nil
	})
	g.Go(func() error {
		ind, err := s.optionalIndicators(gctx, stockCode)
		in.Indicators = ind
		return err
	})
	if err := g.Wait(); err != nil {
		return squeeze.Input{}, err
	}
	return in, nil
}

func (s *Service) optionalFlows(ctx context.Context, stockCode string) ([]market.InvestorFlow, error) {
	flows, err := s.repos.Flows.GetRecent(ctx, stockCode, s.lookback.FlowDays)
	if market.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get flows %s: %w", stockCode, err)
	}
	return flows, nil
}

func (s *Service) optionalIndicators(ctx context.Context, stockCode string) (*technical.Indicators, error) {
	ind, err := s.Indicators(ctx, stockCode)
	if market.IsNotFoundError(err) {
		return nil, nil
	}
	return ind, err
}
