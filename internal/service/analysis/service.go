// Package analysis wires repositories, the quant engines and the indicator
// cache into the read operations served by the API and CLI.
package analysis

import (
	"time"

	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/quant/diagnosis"
	"github.com/wonny/quantdiag/internal/quant/regime"
	"github.com/wonny/quantdiag/internal/quant/screener"
	"github.com/wonny/quantdiag/internal/quant/squeeze"
	"github.com/wonny/quantdiag/internal/quant/technical"
)

// KST 평가일 기준 시간대
var KST = time.FixedZone("KST", 9*60*60)

// Repositories 분석에 필요한 저장소 묶음
type Repositories struct {
	Bars       market.BarRepository
	Breadth    market.BreadthRepository
	Shorts     market.ShortInterestRepository
	Flows      market.FlowRepository
	Financials market.FinancialRepository
}

// Lookback 조회 기간 (거래일 수)
type Lookback struct {
	BarDays        int
	FlowDays       int
	ShortDays      int
	BreadthPadding int // ADR 윈도우 외 여유 거래일
	ScanSinceDays  int // 공매도 후보 스캔 대상: 최근 N일 내 기록이 있는 종목
	ScanWorkers    int
}

// DefaultLookback 기본 조회 기간
func DefaultLookback() Lookback {
	return Lookback{
		BarDays:        130,
		FlowDays:       20,
		ShortDays:      20,
		BreadthPadding: 10,
		ScanSinceDays:  14,
		ScanWorkers:    8,
	}
}

// Service 분석 서비스
type Service struct {
	repos    Repositories
	lookback Lookback
	loader   *cache.Loader

	calculator *technical.Calculator
	classifier *regime.Classifier
	scorer     *squeeze.Scorer
	aggregator *diagnosis.Aggregator
	screenCfg  screener.Config

	now func() time.Time
}

// NewService 서비스 생성
func NewService(repos Repositories, quant config.QuantConfig, loader *cache.Loader, lookback Lookback) *Service {
	return &Service{
		repos:      repos,
		lookback:   lookback,
		loader:     loader,
		calculator: technical.NewCalculator(quant.Technical),
		classifier: regime.NewClassifier(quant.Regime),
		scorer:     squeeze.NewScorer(quant.Squeeze),
		aggregator: diagnosis.NewAggregator(quant.Diagnosis),
		screenCfg:  quant.Screener,
		now:        time.Now,
	}
}

// ScreenerConfig 스크리너 기본 파라미터
func (s *Service) ScreenerConfig() screener.Config {
	return s.screenCfg
}

// SqueezeConfig 숏스퀴즈 스캔 기본값
func (s *Service) SqueezeConfig() squeeze.Config {
	return s.scorer.Config()
}

// CacheStats 캐시 통계
func (s *Service) CacheStats() cache.Stats {
	return s.loader.Store().Stats()
}

// today 평가일 (KST 자정)
func (s *Service) today() time.Time {
	now := s.now().In(KST)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) key(f cache.Family, entityID string) cache.Key {
	return s.loader.Policy().Key(f, entityID, s.today())
}
