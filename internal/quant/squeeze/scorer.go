// Package squeeze scores how likely a stock is to see short covering, based
// on stock-loan balance trends, foreign buying and price trend reversal.
package squeeze

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/quant/series"
	"github.com/wonny/quantdiag/internal/quant/technical"
)

// Input 종목별 스코어링 입력
type Input struct {
	StockCode string
	StockName string
	// Records 공매도/대차 일별 기록 (오래된 순)
	Records []market.ShortInterestRecord
	// ForeignNetBuy 외국인 일별 순매수 금액 (오래된 순, 원)
	ForeignNetBuy []int64
	// Indicators 기술적 지표 (없으면 nil)
	Indicators *technical.Indicators
}

// Breakdown 항목별 점수
type Breakdown struct {
	Loan       float64 `json:"loan"`
	Foreign    float64 `json:"foreign"`
	Trend      float64 `json:"trend"`
	ShortRatio float64 `json:"short_ratio"`
}

// Total 항목 합계 (반올림 후 0~100)
func (b Breakdown) Total() int {
	return int(series.Clamp(math.Round(b.Loan+b.Foreign+b.Trend+b.ShortRatio), 0, 100))
}

// Assessment 숏스퀴즈 분석 결과
type Assessment struct {
	StockCode    string    `json:"stock_code"`
	StockName    string    `json:"stock_name,omitempty"`
	AnalysisDate time.Time `json:"analysis_date"`
	CurrentPrice float64   `json:"current_price"`
	ChangeRate   float64   `json:"change_rate"`

	// 대차잔고
	CurrentLoanBalance     int64    `json:"current_loan_balance"`
	AvgLoanBalance20Days   *float64 `json:"avg_loan_balance_20days"`
	LoanBalanceChange5Days *float64 `json:"loan_balance_change_5days"`
	LoanBalanceRatio       float64  `json:"loan_balance_ratio"`

	// 공매도
	ShortRatio        float64 `json:"short_ratio"`
	ShortBalanceRatio float64 `json:"short_balance_ratio"`

	// 수급
	ForeignNetBuy3Days int64 `json:"foreign_net_buy_3days"`
	IsForeignBuying    bool  `json:"is_foreign_buying"`
	IsShortCovering    bool  `json:"is_short_covering"`

	// 추세
	PriceChange5Days *float64 `json:"price_change_5days"`
	MA20             *float64 `json:"ma20"`
	IsAboveMA20      bool     `json:"is_above_ma20"`
	IsPriceRising    bool     `json:"is_price_rising"`
	IsTrendReversal  bool     `json:"is_trend_reversal"`
	IsGoldenCross    bool     `json:"is_golden_cross"`
	IsArrangedUp     bool     `json:"is_arranged_up"`
	IsRSIOversold    bool     `json:"is_rsi_oversold"`

	Components        Breakdown `json:"components"`
	SqueezeScore      int       `json:"squeeze_score"`
	SqueezeLevel      Level     `json:"squeeze_level"`
	SignalDescription string    `json:"signal_description"`
}

// Factors 점수 계산에 사용하는 파생 값
type Factors struct {
	LoanChange5Days   *float64
	ForeignNet3Days   int64
	IsTrendReversal   bool
	IsPriceRising     bool
	IsAboveMA20       bool
	ShortRatioDecline *float64 // 상대 감소율 (%), 감소하지 않았으면 nil
}

// Scorer 숏스퀴즈 스코어러
type Scorer struct {
	cfg Config
}

// NewScorer 스코어러 생성
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Config 현재 설정
func (s *Scorer) Config() Config { return s.cfg }

// Assess 대차/공매도 이력 + 외국인 수급 + 기술적 지표로 종목 평가
func (s *Scorer) Assess(in Input) (*Assessment, error) {
	if err := market.ValidateShortInterest(in.Records); err != nil {
		return nil, fmt.Errorf("squeeze %s: %w", in.StockCode, err)
	}

	records := in.Records
	latest := records[len(records)-1]

	a := &Assessment{
		StockCode:          latest.StockCode,
		StockName:          in.StockName,
		AnalysisDate:       latest.TradeDate,
		CurrentPrice:       latest.ClosePrice,
		ChangeRate:         latest.ChangeRate,
		CurrentLoanBalance: latest.LoanBalanceQuantity,
		LoanBalanceRatio:   latest.LoanBalanceRatio,
		ShortRatio:         latest.ShortRatio,
		ShortBalanceRatio:  latest.ShortBalanceRatio,
	}

	loans := make([]float64, len(records))
	closes := make([]float64, len(records))
	for i, r := range records {
		loans[i] = float64(r.LoanBalanceQuantity)
		closes[i] = r.ClosePrice
	}

	a.AvgLoanBalance20Days = series.Ptr(series.SMA(loans, s.cfg.AvgWindow))

	var shortDecline *float64
	if s.cfg.ChangeWindow > 0 && len(records) >= s.cfg.ChangeWindow {
		first := records[len(records)-s.cfg.ChangeWindow]
		a.LoanBalanceChange5Days = series.Ptr(series.PercentChange(
			float64(first.LoanBalanceQuantity), float64(latest.LoanBalanceQuantity)))
		a.PriceChange5Days = series.Ptr(series.PercentChange(first.ClosePrice, latest.ClosePrice))

		if first.ShortRatio > 0 && latest.ShortRatio < first.ShortRatio {
			d := (first.ShortRatio - latest.ShortRatio) / first.ShortRatio * 100
			shortDecline = &d
		}
	}

	for _, v := range series.Last(in.ForeignNetBuy, s.cfg.ForeignDays) {
		a.ForeignNetBuy3Days += v
	}
	a.IsForeignBuying = a.ForeignNetBuy3Days > 0
	a.IsShortCovering = a.LoanBalanceChange5Days != nil && *a.LoanBalanceChange5Days < 0

	a.MA20 = series.Ptr(series.SMA(closes, s.cfg.AvgWindow))
	a.IsAboveMA20 = a.MA20 != nil && latest.ClosePrice > *a.MA20
	a.IsPriceRising = a.PriceChange5Days != nil && *a.PriceChange5Days >= s.cfg.PriceRiseThreshold

	if ind := in.Indicators; ind != nil {
		a.IsGoldenCross = ind.IsGoldenCross
		a.IsArrangedUp = ind.IsArrangedUp
		a.IsRSIOversold = ind.IsRSIOversold()
		if a.MA20 == nil && ind.MA20 != nil {
			a.MA20 = ind.MA20
			a.IsAboveMA20 = ind.IsAboveMA20
		}
	}
	a.IsTrendReversal = a.IsAboveMA20 || a.IsPriceRising || a.IsGoldenCross

	a.Components = s.Score(Factors{
		LoanChange5Days:   a.LoanBalanceChange5Days,
		ForeignNet3Days:   a.ForeignNetBuy3Days,
		IsTrendReversal:   a.IsTrendReversal,
		IsPriceRising:     a.IsPriceRising,
		IsAboveMA20:       a.IsAboveMA20,
		ShortRatioDecline: shortDecline,
	})
	a.SqueezeScore = a.Components.Total()
	a.SqueezeLevel = s.cfg.LevelFor(a.SqueezeScore)
	a.SignalDescription = describe(a)
	return a, nil
}

// Score 항목별 점수
func (s *Scorer) Score(f Factors) Breakdown {
	var b Breakdown

	// 1. 대차잔고 감소
	if f.LoanChange5Days != nil && *f.LoanChange5Days < 0 && s.cfg.LoanFullDecline > 0 {
		b.Loan = math.Min(s.cfg.LoanMaxPoints, -*f.LoanChange5Days/s.cfg.LoanFullDecline*s.cfg.LoanMaxPoints)
	}

	// 2. 외국인 순매수
	if f.ForeignNet3Days > 0 {
		ratio := 1.0
		if s.cfg.ForeignNetBuyFull > 0 {
			ratio = math.Min(1, float64(f.ForeignNet3Days)/s.cfg.ForeignNetBuyFull)
		}
		b.Foreign = s.cfg.ForeignBasePoints + (s.cfg.ForeignMaxPoints-s.cfg.ForeignBasePoints)*ratio
	}

	// 3. 추세 전환
	if f.IsTrendReversal {
		b.Trend = s.cfg.ReversalPoints
		if f.IsPriceRising && f.IsAboveMA20 {
			b.Trend += s.cfg.RisingPoints
		}
	}

	// 4. 공매도 비중 감소
	if f.ShortRatioDecline != nil && *f.ShortRatioDecline > 0 && s.cfg.ShortRatioFullDecline > 0 {
		b.ShortRatio = s.cfg.ShortRatioMaxPoints * math.Min(1, *f.ShortRatioDecline/s.cfg.ShortRatioFullDecline)
	}
	return b
}

func describe(a *Assessment) string {
	var sb strings.Builder
	sb.WriteString(a.SqueezeLevel.Description())
	if a.IsGoldenCross {
		sb.WriteString(" + 골든크로스")
	}
	if a.IsArrangedUp {
		sb.WriteString(" + 정배열")
	}
	if a.IsRSIOversold {
		sb.WriteString(" + RSI 침체(반등 가능)")
	}
	return sb.String()
}
