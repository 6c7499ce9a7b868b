package screener

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wonny/quantdiag/internal/domain/market"
)

// PEGParams PEG 스크리너 파라미터
type PEGParams struct {
	MaxPEG       float64 `toml:"max_peg" json:"max_peg"`
	MinEPSGrowth float64 `toml:"min_eps_growth" json:"min_eps_growth"` // %
	Limit        int     `toml:"limit" json:"limit"`
}

// PEGResult PEG 결과
type PEGResult struct {
	StockCode string          `json:"stock_code"`
	StockName string          `json:"stock_name"`
	MarketCap decimal.Decimal `json:"market_cap"`
	PER       float64         `json:"per"`
	EPS       *float64        `json:"eps,omitempty"`
	EPSGrowth float64         `json:"eps_growth"`
	PEG       float64         `json:"peg"`
}

// PEG PER / EPS 성장률, 저평가 성장주
func PEG(snapshots []market.FinancialSnapshot, p PEGParams) Result[PEGResult] {
	excluded := Exclusions{}
	results := make([]PEGResult, 0)
	for _, s := range LatestPerStock(snapshots) {
		if s.PER == nil || s.EPSGrowth == nil {
			excluded.add(ReasonMissingMetric)
			continue
		}
		per, growth := *s.PER, *s.EPSGrowth
		switch {
		case per <= 0:
			excluded.add(ReasonNonPositivePER)
			continue
		case growth <= 0:
			excluded.add(ReasonNonPositiveGrowth)
			continue
		case growth < p.MinEPSGrowth:
			excluded.add(ReasonBelowGrowth)
			continue
		}

		peg := per / growth
		if peg > p.MaxPEG {
			excluded.add(ReasonAbovePEG)
			continue
		}
		results = append(results, PEGResult{
			StockCode: s.StockCode,
			StockName: s.StockName,
			MarketCap: s.MarketCap,
			PER:       per,
			EPS:       s.EPS,
			EPSGrowth: growth,
			PEG:       peg,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].PEG != results[j].PEG {
			return results[i].PEG < results[j].PEG
		}
		return results[i].StockCode < results[j].StockCode
	})
	return newResult(results, p.Limit, excluded)
}
