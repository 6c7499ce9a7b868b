package screener

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wonny/quantdiag/internal/domain/market"
)

// MagicFormulaParams 마법의 공식 파라미터
type MagicFormulaParams struct {
	MinMarketCap decimal.Decimal `toml:"min_market_cap" json:"min_market_cap"`
	Limit        int             `toml:"limit" json:"limit"`
}

// MagicFormulaResult 마법의 공식 결과
type MagicFormulaResult struct {
	Rank                int             `json:"rank"`
	StockCode           string          `json:"stock_code"`
	StockName           string          `json:"stock_name"`
	MarketCap           decimal.Decimal `json:"market_cap"`
	OperatingMargin     float64         `json:"operating_margin"`
	ROE                 float64         `json:"roe"`
	PER                 float64         `json:"per"`
	OperatingMarginRank int             `json:"operating_margin_rank"`
	ROERank             int             `json:"roe_rank"`
	PERRank             int             `json:"per_rank"`
	Score               int             `json:"magic_formula_score"` // 낮을수록 좋음
}

// MagicFormula 영업이익률(내림차순) + ROE(내림차순) + PER(오름차순) 순위 합산
func MagicFormula(snapshots []market.FinancialSnapshot, p MagicFormulaParams) Result[MagicFormulaResult] {
	excluded := Exclusions{}
	eligible := make([]market.FinancialSnapshot, 0)
	for _, s := range LatestPerStock(snapshots) {
		switch {
		case s.OperatingMargin == nil || s.ROE == nil || s.PER == nil:
			excluded.add(ReasonMissingMetric)
		case *s.PER <= 0:
			excluded.add(ReasonNonPositivePER)
		case s.MarketCap.LessThan(p.MinMarketCap):
			excluded.add(ReasonBelowMarketCap)
		default:
			eligible = append(eligible, s)
		}
	}

	margins := make([]float64, len(eligible))
	roes := make([]float64, len(eligible))
	pers := make([]float64, len(eligible))
	for i, s := range eligible {
		margins[i] = *s.OperatingMargin
		roes[i] = *s.ROE
		pers[i] = *s.PER
	}
	marginRanks := competitionRanks(margins, true)
	roeRanks := competitionRanks(roes, true)
	perRanks := competitionRanks(pers, false)

	results := make([]MagicFormulaResult, len(eligible))
	for i, s := range eligible {
		results[i] = MagicFormulaResult{
			StockCode:           s.StockCode,
			StockName:           s.StockName,
			MarketCap:           s.MarketCap,
			OperatingMargin:     margins[i],
			ROE:                 roes[i],
			PER:                 pers[i],
			OperatingMarginRank: marginRanks[i],
			ROERank:             roeRanks[i],
			PERRank:             perRanks[i],
			Score:               marginRanks[i] + roeRanks[i] + perRanks[i],
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if c := a.MarketCap.Cmp(b.MarketCap); c != 0 {
			return c > 0
		}
		return a.StockCode < b.StockCode
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	return newResult(results, p.Limit, excluded)
}
