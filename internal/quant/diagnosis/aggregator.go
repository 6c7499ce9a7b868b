// Package diagnosis combines financial health, supply-demand and technical
// sub-scores into one weighted verdict per stock.
package diagnosis

import (
	"fmt"
	"math"
	"time"

	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/quant/technical"
)

// Input 종목 진단 입력
type Input struct {
	StockCode string
	StockName string
	// Financial 최신 재무 스냅샷 (없으면 nil)
	Financial *market.FinancialSnapshot
	// Flows 투자자별 수급 (오래된 순)
	Flows []market.InvestorFlow
	// Indicators 기술적 지표 (일봉 부족 시 nil)
	Indicators *technical.Indicators
}

// StockDiagnosis 종목 종합 진단
type StockDiagnosis struct {
	StockCode    string    `json:"stock_code"`
	StockName    string    `json:"stock_name,omitempty"`
	AnalysisDate time.Time `json:"analysis_date"`

	Financial    *FinancialHealth      `json:"financial"`
	SupplyDemand *SupplyDemand         `json:"supply_demand"`
	Technical    *technical.Indicators `json:"technical"`

	FinancialScore    *int `json:"financial_score"`
	SupplyDemandScore *int `json:"supply_demand_score"`
	TechnicalScore    *int `json:"technical_score"`
	OverallScore      *int `json:"overall_score"`

	Verdict            VerdictLevel `json:"verdict,omitempty"`
	VerdictLabel       string       `json:"verdict_label,omitempty"`
	VerdictDescription string       `json:"verdict_description"`

	Warnings  []string `json:"warnings"`
	Positives []string `json:"positives"`
}

// Aggregator 종목 진단기
type Aggregator struct {
	cfg Config
}

// NewAggregator 진단기 생성
func NewAggregator(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Config 현재 설정
func (a *Aggregator) Config() Config { return a.cfg }

// Diagnose 재무 + 수급 + 기술적 점수를 가중 평균해 판정
func (a *Aggregator) Diagnose(in Input) (*StockDiagnosis, error) {
	if len(in.Flows) > 0 {
		if err := market.ValidateFlows(in.Flows); err != nil {
			return nil, fmt.Errorf("diagnose %s: %w", in.StockCode, err)
		}
	}

	d := &StockDiagnosis{
		StockCode:    in.StockCode,
		StockName:    in.StockName,
		Financial:    a.financialHealth(in.Financial),
		SupplyDemand: a.supplyDemand(in.Flows),
		Technical:    in.Indicators,
		Warnings:     []string{},
		Positives:    []string{},
	}
	if d.StockName == "" && in.Financial != nil {
		d.StockName = in.Financial.StockName
	}
	d.AnalysisDate = analysisDate(in)

	var weighted, weightSum float64
	if d.Financial != nil {
		d.FinancialScore = intPtr(d.Financial.Score)
		weighted += a.cfg.Weights.Financial * float64(d.Financial.Score)
		weightSum += a.cfg.Weights.Financial
	}
	if d.SupplyDemand != nil {
		d.SupplyDemandScore = intPtr(d.SupplyDemand.Score)
		weighted += a.cfg.Weights.SupplyDemand * float64(d.SupplyDemand.Score)
		weightSum += a.cfg.Weights.SupplyDemand
	}
	if d.Technical != nil {
		d.TechnicalScore = intPtr(d.Technical.BuySignalStrength)
		weighted += a.cfg.Weights.Technical * float64(d.Technical.BuySignalStrength)
		weightSum += a.cfg.Weights.Technical
	}

	if weightSum > 0 {
		overall := int(math.Round(weighted / weightSum))
		d.OverallScore = &overall
		d.Verdict = a.cfg.VerdictFor(overall)
		d.VerdictLabel = d.Verdict.Label()
		d.VerdictDescription = d.Verdict.Description()
	} else {
		d.VerdictDescription = "진단에 필요한 데이터가 부족합니다."
	}

	a.collectSignals(d)
	return d, nil
}

// collectSignals 경고/긍정 요인 (순서 고정)
func (a *Aggregator) collectSignals(d *StockDiagnosis) {
	f, sd, t := d.Financial, d.SupplyDemand, d.Technical

	if f != nil && f.IsOneTimeGainSuspected {
		d.Warnings = append(d.Warnings, fmt.Sprintf("일회성 이익 의심: 순이익이 영업이익 대비 %.1f%% 높음", *f.ProfitGapRatio))
	}
	if sd != nil && sd.IsBothSelling {
		d.Warnings = append(d.Warnings, "외국인+기관 동반 매도 중")
	}
	if t != nil && t.IsRSIOverbought() {
		d.Warnings = append(d.Warnings, "RSI 과열 구간 (단기 조정 가능성)")
	}
	if t != nil && t.IsDeadCross {
		d.Warnings = append(d.Warnings, "데드크로스 발생")
	}
	if f != nil && f.DebtRatio != nil && *f.DebtRatio > a.cfg.HighDebtRatio {
		d.Warnings = append(d.Warnings, fmt.Sprintf("부채비율 %.1f%% (재무 위험)", *f.DebtRatio))
	}

	if f != nil && f.OperatingMargin != nil && *f.OperatingMargin > a.cfg.GoodOperatingMargin {
		d.Positives = append(d.Positives, fmt.Sprintf("영업이익률 %.1f%% (양호)", *f.OperatingMargin))
	}
	if sd != nil && sd.IsBothBuying {
		d.Positives = append(d.Positives, "외국인+기관 동반 매수 중")
	}
	if t != nil && t.IsArrangedUp {
		d.Positives = append(d.Positives, "이평선 정배열 (상승 추세)")
	}
	if t != nil && t.IsGoldenCross {
		d.Positives = append(d.Positives, "골든크로스 발생")
	}
	if t != nil && t.IsRSIOversold() {
		d.Positives = append(d.Positives, "RSI 침체 구간 (반등 기회)")
	}
}

// analysisDate 가장 최근 입력 날짜
func analysisDate(in Input) time.Time {
	var latest time.Time
	if in.Indicators != nil {
		latest = in.Indicators.AsOf
	}
	if n := len(in.Flows); n > 0 && in.Flows[n-1].TradeDate.After(latest) {
		latest = in.Flows[n-1].TradeDate
	}
	if latest.IsZero() && in.Financial != nil {
		latest = in.Financial.ReportDate
	}
	return latest
}

func intPtr(v int) *int { return &v }
