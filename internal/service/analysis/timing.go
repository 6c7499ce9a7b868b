package analysis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/quant/regime"
	"golang.org/x/sync/errgroup"
)

// Timing 시장 타이밍 (코스피/코스닥 ADR, 캐시 경유)
func (s *Service) Timing(ctx context.Context) (*regime.Timing, error) {
	return cache.Load(ctx, s.loader, s.key(cache.FamilyRegime, "timing"), func(ctx context.Context) (*regime.Timing, error) {
		days := s.classifier.Config().Window + s.lookback.BreadthPadding
		kospi, kosdaq, err := s.loadBreadth(ctx, days)
		if err != nil {
			return nil, err
		}
		return s.classifier.Assess(kospi, kosdaq)
	})
}

// ADRHistory 최근 days 거래일 ADR 이력 (최신순)
func (s *Service) ADRHistory(ctx context.Context, days int) ([]regime.HistoryPoint, error) {
	if days <= 0 {
		return []regime.HistoryPoint{}, nil
	}
	key := s.key(cache.FamilyRegime, "history:"+strconv.Itoa(days))
	return cache.Load(ctx, s.loader, key, func(ctx context.Context) ([]regime.HistoryPoint, error) {
		kospi, kosdaq, err := s.loadBreadth(ctx, days+s.classifier.Config().Window)
		if err != nil {
			return nil, err
		}
		return s.classifier.History(kospi, kosdaq, days)
	})
}

// loadBreadth 두 시장 기록을 동시에 조회
// 한 시장만 기록이 없으면 나머지로 계산하고, 둘 다 없으면 not found.
func (s *Service) loadBreadth(ctx context.Context, days int) (kospi, kosdaq []market.MarketBreadth, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		kospi, err = s.recentBreadth(gctx, market.KOSPI, days)
		return err
	})
	g.Go(func() error {
		var err error
		kosdaq, err = s.recentBreadth(gctx, market.KOSDAQ, days)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if len(kospi) == 0 && len(kosdaq) == 0 {
		return nil, nil, fmt.Errorf("load breadth: %w", market.ErrBreadthNotFound)
	}
	return kospi, kosdaq, nil
}

func (s *Service) recentBreadth(ctx context.Context, m market.Market, days int) ([]market.MarketBreadth, error) {
	records, err := s.repos.Breadth.GetRecent(ctx, m, days)
	if market.IsNotFoundError(err) {
		log.Debug().Str("market", string(m)).Msg("No breadth records")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get breadth %s: %w", m, err)
	}
	return records, nil
}
