// Package collector crawls end-of-day market data into the repositories and
// raises a regime alert when the combined ADR enters an alert band.
package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/kafka"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/quant/regime"
	"golang.org/x/sync/errgroup"
)

// KST 수집 기준 시간대
var KST = time.FixedZone("KST", 9*60*60)

// Crawler 외부 시세 수집 클라이언트 (naver.Client)
type Crawler interface {
	FetchBreadth(ctx context.Context, m market.Market, tradeDate time.Time) (*market.MarketBreadth, error)
	FetchDailyBars(ctx context.Context, stockCode string, days int) ([]market.DailyBar, error)
	FetchInvestorFlow(ctx context.Context, stockCode string, days int) ([]market.InvestorFlow, error)
	FetchShortInterest(ctx context.Context, stockCode string, days int) ([]market.ShortInterestRecord, error)
	FetchFinancials(ctx context.Context, stockCode string) ([]market.FinancialSnapshot, error)
}

// AlertPublisher 시장 경보 발행 (kafka.Producer)
type AlertPublisher interface {
	PublishRegimeAlert(ctx context.Context, alert *kafka.RegimeAlert) error
}

// Repositories 수집 대상 저장소
type Repositories struct {
	Bars       market.BarRepository
	Breadth    market.BreadthRepository
	Shorts     market.ShortInterestRepository
	Flows      market.FlowRepository
	Financials market.FinancialRepository
}

// BreadthResult 등락 종목 수 수집 결과
type BreadthResult struct {
	Date    time.Time              `json:"date"`
	Markets []market.MarketBreadth `json:"markets"`
	Timing  *regime.Timing         `json:"timing,omitempty"`
	Alert   *kafka.RegimeAlert     `json:"alert,omitempty"`
}

// StockResult 종목 수집 결과 (저장 건수)
type StockResult struct {
	StockCode  string `json:"stock_code"`
	Bars       int    `json:"bars"`
	Flows      int    `json:"flows"`
	Shorts     int    `json:"shorts"`
	Financials int    `json:"financials"`
}

// Status 최근 실행 상태
type Status struct {
	Running   bool      `json:"running"`
	LastRunAt time.Time `json:"last_run_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	NextRunAt time.Time `json:"next_run_at,omitempty"`
	Stocks    int       `json:"stocks"`
	Failed    int       `json:"failed"`
}

// Service 장마감 수집 서비스
type Service struct {
	crawler    Crawler
	repos      Repositories
	publisher  AlertPublisher // nil이면 경보 미발행
	classifier *regime.Classifier
	cfg        config.CollectorConfig

	// 종목 수집 동시 실행 수
	concurrency int
	now         func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	status Status
	runMu  sync.Mutex
}

// NewService 서비스 생성
func NewService(crawler Crawler, repos Repositories, publisher AlertPublisher, regimeCfg regime.Config, cfg config.CollectorConfig) *Service {
	if cfg.BarDays <= 0 {
		cfg.BarDays = 130
	}
	if cfg.FlowDays <= 0 {
		cfg.FlowDays = 20
	}
	return &Service{
		crawler:     crawler,
		repos:       repos,
		publisher:   publisher,
		classifier:  regime.NewClassifier(regimeCfg),
		cfg:         cfg,
		concurrency: 2,
		now:         time.Now,
	}
}

// Today 수집 기준일 (KST 자정, UTC 표기)
func (s *Service) Today() time.Time {
	now := s.now().In(KST)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ============================================================================
// Breadth
// ============================================================================

// CollectBreadth 코스피/코스닥 등락 종목 수 수집 후 시장 타이밍 재계산
// 한 시장 수집이 실패해도 나머지는 저장한다. 둘 다 실패하면 에러.
func (s *Service) CollectBreadth(ctx context.Context, tradeDate time.Time) (*BreadthResult, error) {
	result := &BreadthResult{Date: tradeDate}

	var errs []error
	for _, m := range market.Markets {
		b, err := s.crawler.FetchBreadth(ctx, m, tradeDate)
		if err != nil {
			log.Warn().Err(err).Str("market", string(m)).Msg("Breadth fetch failed")
			errs = append(errs, fmt.Errorf("fetch breadth %s: %w", m, err))
			continue
		}
		if err := s.repos.Breadth.Upsert(ctx, b); err != nil {
			errs = append(errs, fmt.Errorf("save breadth %s: %w", m, err))
			continue
		}
		result.Markets = append(result.Markets, *b)

		log.Info().
			Str("market", string(m)).
			Time("date", tradeDate).
			Int("advancing", b.Advancing).
			Int("declining", b.Declining).
			Msg("Breadth collected")
	}
	if len(result.Markets) == 0 {
		return nil, errors.Join(errs...)
	}

	timing, err := s.assessTiming(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Market timing unavailable after collection")
		return result, nil
	}
	result.Timing = timing

	alert := kafka.NewRegimeAlert(timing, s.now())
	if alert == nil {
		return result, nil
	}
	result.Alert = alert

	if s.publisher == nil {
		log.Warn().Str("condition", string(alert.Condition)).Msg("Regime alert raised, publisher disabled")
		return result, nil
	}
	if err := s.publisher.PublishRegimeAlert(ctx, alert); err != nil {
		log.Error().Err(err).Str("condition", string(alert.Condition)).Msg("Failed to publish regime alert")
		return result, nil
	}
	log.Info().
		Str("condition", string(alert.Condition)).
		Float64("combined_adr", *alert.CombinedADR).
		Msg("Regime alert published")

	return result, nil
}

// breadthPadding ADR 윈도우 외 여유 거래일 (한 시장 누락일 대비)
const breadthPadding = 10

// assessTiming 저장소의 최신 이력으로 직접 계산 (캐시 미사용)
func (s *Service) assessTiming(ctx context.Context) (*regime.Timing, error) {
	limit := s.classifier.Config().Window + breadthPadding
	records := make(map[market.Market][]market.MarketBreadth, len(market.Markets))
	for _, m := range market.Markets {
		r, err := s.repos.Breadth.GetRecent(ctx, m, limit)
		if err != nil && !market.IsNotFoundError(err) {
			return nil, fmt.Errorf("get breadth %s: %w", m, err)
		}
		records[m] = r
	}
	return s.classifier.Assess(records[market.KOSPI], records[market.KOSDAQ])
}

// ============================================================================
// Stock
// ============================================================================

// CollectStock 종목 일봉, 수급, 공매도, 재무 수집
// 일봉 실패는 에러, 나머지는 경고 후 계속 진행한다.
func (s *Service) CollectStock(ctx context.Context, stockCode string) (*StockResult, error) {
	if len(stockCode) != 6 {
		return nil, fmt.Errorf("collect %q: %w", stockCode, market.ErrInvalidStockCode)
	}
	logger := log.With().Str("stock_code", stockCode).Logger()
	result := &StockResult{StockCode: stockCode}

	bars, err := s.crawler.FetchDailyBars(ctx, stockCode, s.cfg.BarDays)
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", stockCode, err)
	}
	if result.Bars, err = s.repos.Bars.UpsertBatch(ctx, bars); err != nil {
		return nil, fmt.Errorf("save bars %s: %w", stockCode, err)
	}

	if flows, err := s.crawler.FetchInvestorFlow(ctx, stockCode, s.cfg.FlowDays); err != nil {
		logger.Warn().Err(err).Msg("Investor flow fetch failed")
	} else if result.Flows, err = s.repos.Flows.UpsertBatch(ctx, flows); err != nil {
		return nil, fmt.Errorf("save flows %s: %w", stockCode, err)
	}

	if shorts, err := s.crawler.FetchShortInterest(ctx, stockCode, s.cfg.FlowDays); err != nil {
		logger.Warn().Err(err).Msg("Short interest fetch failed")
	} else if result.Shorts, err = s.repos.Shorts.UpsertBatch(ctx, shorts); err != nil {
		return nil, fmt.Errorf("save short interest %s: %w", stockCode, err)
	}

	if snaps, err := s.crawler.FetchFinancials(ctx, stockCode); err != nil {
		logger.Warn().Err(err).Msg("Financials fetch failed")
	} else {
		for i := range snaps {
			if err := s.repos.Financials.Upsert(ctx, &snaps[i]); err != nil {
				return nil, fmt.Errorf("save financial %s: %w", stockCode, err)
			}
			result.Financials++
		}
	}

	logger.Info().
		Int("bars", result.Bars).
		Int("flows", result.Flows).
		Int("shorts", result.Shorts).
		Int("financials", result.Financials).
		Msg("Stock collected")

	return result, nil
}

// CollectAll 등락 종목 수 + 설정된 전 종목 수집
// 종목 실패는 건너뛰고 실패 건수만 기록한다.
func (s *Service) CollectAll(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := s.now()
	date := s.Today()
	logger := log.With().Time("date", date).Logger()

	var runErr error
	if _, err := s.CollectBreadth(ctx, date); err != nil {
		logger.Error().Err(err).Msg("Breadth collection failed")
		runErr = err
	}

	var failed int
	var failMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.concurrency, 1))
	for _, code := range s.cfg.StockCodes {
		g.Go(func() error {
			if _, err := s.CollectStock(gctx, code); err != nil {
				logger.Warn().Err(err).Str("stock_code", code).Msg("Stock collection failed")
				failMu.Lock()
				failed++
				failMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}

	s.mu.Lock()
	s.status.LastRunAt = start
	s.status.Stocks = len(s.cfg.StockCodes)
	s.status.Failed = failed
	s.status.LastError = ""
	if runErr != nil {
		s.status.LastError = runErr.Error()
	}
	s.mu.Unlock()

	logger.Info().
		Int("stocks", len(s.cfg.StockCodes)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("Collection run completed")

	return runErr
}

// Status 최근 실행 상태
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}
