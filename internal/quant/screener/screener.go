// Package screener ranks financial snapshots with the Magic Formula, PEG and
// turnaround screens.
//
// Records whose ratios are undefined (missing metric, non-positive PER or
// growth) are never ranked; each screen reports how many it excluded and why.
package screener

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/wonny/quantdiag/internal/domain/market"
)

// ExclusionReason 제외 사유
type ExclusionReason string

const (
	ReasonMissingMetric     ExclusionReason = "missing_metric"
	ReasonNonPositivePER    ExclusionReason = "non_positive_per"
	ReasonBelowMarketCap    ExclusionReason = "below_market_cap"
	ReasonNonPositiveGrowth ExclusionReason = "non_positive_growth"
	ReasonAbovePEG          ExclusionReason = "above_max_peg"
	ReasonBelowGrowth       ExclusionReason = "below_min_eps_growth"
	ReasonSinglePeriod      ExclusionReason = "single_period"
	ReasonNoTurnaround      ExclusionReason = "no_turnaround"
)

// Exclusions 사유별 제외 건수
type Exclusions map[ExclusionReason]int

func (e Exclusions) add(r ExclusionReason) { e[r]++ }

// Total 전체 제외 건수
func (e Exclusions) Total() int {
	n := 0
	for _, v := range e {
		n += v
	}
	return n
}

// Result 스크리너 결과
type Result[T any] struct {
	Items    []T        `json:"items"`
	Total    int        `json:"total"`
	Excluded Exclusions `json:"excluded"`
}

func newResult[T any](items []T, limit int, excluded Exclusions) Result[T] {
	total := len(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return Result[T]{Items: items, Total: total, Excluded: excluded}
}

// Config 스크리너 기본 파라미터
type Config struct {
	MagicFormula MagicFormulaParams `toml:"magic_formula" json:"magic_formula"`
	PEG          PEGParams          `toml:"peg" json:"peg"`
	Turnaround   TurnaroundParams   `toml:"turnaround" json:"turnaround"`
	SummaryLimit int                `toml:"summary_limit" json:"summary_limit"`
}

// DefaultConfig 기본 설정
func DefaultConfig() Config {
	return Config{
		MagicFormula: MagicFormulaParams{MinMarketCap: decimal.Zero, Limit: 30},
		PEG:          PEGParams{MaxPEG: 1.0, MinEPSGrowth: 10, Limit: 30},
		Turnaround:   TurnaroundParams{MinGrowthRate: 50, Limit: 30},
		SummaryLimit: 5,
	}
}

// LatestPerStock 종목별 최신 스냅샷 (ReportDate 기준, 종목코드 순 반환)
func LatestPerStock(snapshots []market.FinancialSnapshot) []market.FinancialSnapshot {
	latest := make(map[string]market.FinancialSnapshot, len(snapshots))
	for _, s := range snapshots {
		cur, ok := latest[s.StockCode]
		if !ok || !s.ReportDate.Before(cur.ReportDate) {
			latest[s.StockCode] = s
		}
	}

	out := make([]market.FinancialSnapshot, 0, len(latest))
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockCode < out[j].StockCode })
	return out
}

// recentPerStock 종목별 최근 n개 스냅샷 (최신순)
func recentPerStock(snapshots []market.FinancialSnapshot, n int) map[string][]market.FinancialSnapshot {
	grouped := make(map[string][]market.FinancialSnapshot)
	for _, s := range snapshots {
		grouped[s.StockCode] = append(grouped[s.StockCode], s)
	}
	for code, list := range grouped {
		sort.SliceStable(list, func(i, j int) bool { return list[i].ReportDate.After(list[j].ReportDate) })
		if len(list) > n {
			list = list[:n]
		}
		grouped[code] = list
	}
	return grouped
}

// competitionRanks assigns "1224" ranks: equal values share the best rank
// and the next distinct value skips the shared positions.
func competitionRanks(values []float64, descending bool) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if descending {
			return values[idx[a]] > values[idx[b]]
		}
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]int, len(values))
	for pos, i := range idx {
		if pos > 0 && values[i] == values[idx[pos-1]] {
			ranks[i] = ranks[idx[pos-1]]
			continue
		}
		ranks[i] = pos + 1
	}
	return ranks
}
