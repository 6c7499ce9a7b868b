package screener

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wonny/quantdiag/internal/domain/market"
)

// TurnaroundType 턴어라운드 유형
type TurnaroundType string

const (
	LossToProfit TurnaroundType = "LOSS_TO_PROFIT"
	ProfitGrowth TurnaroundType = "PROFIT_GROWTH"
)

// TurnaroundParams 턴어라운드 파라미터
type TurnaroundParams struct {
	MinGrowthRate float64 `toml:"min_growth_rate" json:"min_growth_rate"` // PROFIT_GROWTH 최소 순이익 증가율 (%)
	Limit         int     `toml:"limit" json:"limit"`
}

// TurnaroundResult 턴어라운드 결과
type TurnaroundResult struct {
	StockCode           string          `json:"stock_code"`
	StockName           string          `json:"stock_name"`
	Type                TurnaroundType  `json:"turnaround_type"`
	PreviousReportDate  time.Time       `json:"previous_report_date"`
	CurrentReportDate   time.Time       `json:"current_report_date"`
	PreviousNetIncome   decimal.Decimal `json:"previous_net_income"`
	CurrentNetIncome    decimal.Decimal `json:"current_net_income"`
	NetIncomeChangeRate *float64        `json:"net_income_change_rate"` // 직전 순이익이 0이면 nil
}

// Turnaround 최근 두 기간 순이익 비교
func Turnaround(snapshots []market.FinancialSnapshot, p TurnaroundParams) Result[TurnaroundResult] {
	excluded := Exclusions{}
	results := make([]TurnaroundResult, 0)

	for code, list := range recentPerStock(snapshots, 2) {
		if len(list) < 2 {
			excluded.add(ReasonSinglePeriod)
			continue
		}
		cur, prev := list[0], list[1]

		r := TurnaroundResult{
			StockCode:           code,
			StockName:           cur.StockName,
			PreviousReportDate:  prev.ReportDate,
			CurrentReportDate:   cur.ReportDate,
			PreviousNetIncome:   prev.NetIncome,
			CurrentNetIncome:    cur.NetIncome,
			NetIncomeChangeRate: changeRate(prev.NetIncome, cur.NetIncome),
		}

		switch {
		case !prev.NetIncome.IsPositive() && cur.NetIncome.IsPositive():
			r.Type = LossToProfit
		case prev.NetIncome.IsPositive() && cur.NetIncome.IsPositive() &&
			r.NetIncomeChangeRate != nil && *r.NetIncomeChangeRate >= p.MinGrowthRate:
			r.Type = ProfitGrowth
		default:
			excluded.add(ReasonNoTurnaround)
			continue
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if (a.Type == LossToProfit) != (b.Type == LossToProfit) {
			return a.Type == LossToProfit
		}
		ar, br := a.NetIncomeChangeRate, b.NetIncomeChangeRate
		switch {
		case ar != nil && br != nil && *ar != *br:
			return *ar > *br
		case (ar == nil) != (br == nil):
			return ar != nil
		}
		return a.StockCode < b.StockCode
	})
	return newResult(results, p.Limit, excluded)
}

// changeRate (cur-prev)/|prev|*100
func changeRate(prev, cur decimal.Decimal) *float64 {
	if prev.IsZero() {
		return nil
	}
	v := cur.Sub(prev).Div(prev.Abs()).Mul(decimal.NewFromInt(100)).InexactFloat64()
	return &v
}
