package screener

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/domain/market"
)

var (
	q1 = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	q2 = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
)

func snap(code string, date time.Time, margin, roe, per float64, capEok int64) market.FinancialSnapshot {
	return market.FinancialSnapshot{
		StockCode:       code,
		StockName:       "종목" + code,
		ReportDate:      date,
		MarketCap:       decimal.NewFromInt(capEok),
		OperatingMargin: market.Float(margin),
		ROE:             market.Float(roe),
		PER:             market.Float(per),
	}
}

func TestCompetitionRanks(t *testing.T) {
	assert.Equal(t, []int{1, 2, 2, 4}, competitionRanks([]float64{30, 20, 20, 10}, true))
	assert.Equal(t, []int{4, 2, 2, 1}, competitionRanks([]float64{30, 20, 20, 10}, false))
	assert.Empty(t, competitionRanks(nil, true))
}

func TestLatestPerStock(t *testing.T) {
	old := snap("000001", q1, 5, 5, 10, 100)
	cur := snap("000001", q2, 15, 15, 8, 100)
	other := snap("000002", q1, 1, 1, 1, 1)

	got := LatestPerStock([]market.FinancialSnapshot{cur, other, old})
	require.Len(t, got, 2)
	assert.Equal(t, "000001", got[0].StockCode)
	assert.Equal(t, q2, got[0].ReportDate)
	assert.Equal(t, "000002", got[1].StockCode)
}

func TestMagicFormula(t *testing.T) {
	snapshots := []market.FinancialSnapshot{
		snap("000001", q2, 20, 20, 5, 1000),  // best on every axis: 1+1+1
		snap("000002", q2, 10, 15, 8, 500),   // 2+3+2 = 7
		snap("000003", q2, 5, 18, 10, 3000),  // 3+2+3 = 8
		snap("000004", q2, 30, 30, -2, 9000), // negative PER
		snap("000005", q2, 12, 12, 6, 10),    // below market cap
		{StockCode: "000006", ReportDate: q2, PER: market.Float(4)},
	}

	res := MagicFormula(snapshots, MagicFormulaParams{MinMarketCap: decimal.NewFromInt(100), Limit: 10})
	require.Len(t, res.Items, 3)
	assert.Equal(t, 3, res.Total)

	first := res.Items[0]
	assert.Equal(t, "000001", first.StockCode)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 3, first.Score)
	assert.Equal(t, []string{"000002", "000003"}, []string{res.Items[1].StockCode, res.Items[2].StockCode})
	assert.Equal(t, 7, res.Items[1].Score)
	assert.Equal(t, 8, res.Items[2].Score)

	assert.Equal(t, 1, res.Excluded[ReasonNonPositivePER])
	assert.Equal(t, 1, res.Excluded[ReasonBelowMarketCap])
	assert.Equal(t, 1, res.Excluded[ReasonMissingMetric])
	assert.Equal(t, 3, res.Excluded.Total())
}

func TestMagicFormula_TieBreakByMarketCap(t *testing.T) {
	// A is better on margin, B on ROE: both sum to 1+2+1 = 4 with equal PER
	snapshots := []market.FinancialSnapshot{
		snap("000001", q2, 20, 10, 8, 500),
		snap("000002", q2, 10, 20, 8, 2000),
	}

	res := MagicFormula(snapshots, MagicFormulaParams{Limit: 10})
	require.Len(t, res.Items, 2)
	assert.Equal(t, res.Items[0].Score, res.Items[1].Score)
	assert.Equal(t, "000002", res.Items[0].StockCode)
	assert.Equal(t, 1, res.Items[0].PERRank)
	assert.Equal(t, 1, res.Items[1].PERRank)
}

func TestMagicFormula_Limit(t *testing.T) {
	snapshots := []market.FinancialSnapshot{
		snap("000001", q2, 20, 20, 5, 1000),
		snap("000002", q2, 10, 15, 8, 500),
		snap("000003", q2, 5, 18, 10, 3000),
	}
	res := MagicFormula(snapshots, MagicFormulaParams{Limit: 2})
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.Total)
}

func TestPEG(t *testing.T) {
	withGrowth := func(code string, per, growth float64) market.FinancialSnapshot {
		s := snap(code, q2, 10, 10, per, 100)
		s.EPSGrowth = market.Float(growth)
		return s
	}

	snapshots := []market.FinancialSnapshot{
		withGrowth("000001", 10, 20), // 0.5
		withGrowth("000002", 6, 30),  // 0.2
		withGrowth("000003", 30, 20), // 1.5 > max
		withGrowth("000004", 4, 5),   // growth below minimum
		withGrowth("000005", 10, -5), // undefined
		withGrowth("000006", -3, 20), // undefined
		snap("000007", q2, 10, 10, 10, 100),
	}

	res := PEG(snapshots, PEGParams{MaxPEG: 1.0, MinEPSGrowth: 10, Limit: 10})
	require.Len(t, res.Items, 2)
	assert.Equal(t, "000002", res.Items[0].StockCode)
	assert.InDelta(t, 0.2, res.Items[0].PEG, 1e-9)
	assert.Equal(t, "000001", res.Items[1].StockCode)
	assert.InDelta(t, 0.5, res.Items[1].PEG, 1e-9)

	assert.Equal(t, Exclusions{
		ReasonAbovePEG:          1,
		ReasonBelowGrowth:       1,
		ReasonNonPositiveGrowth: 1,
		ReasonNonPositivePER:    1,
		ReasonMissingMetric:     1,
	}, res.Excluded)
}

func TestTurnaround(t *testing.T) {
	income := func(code string, date time.Time, ni int64) market.FinancialSnapshot {
		return market.FinancialSnapshot{StockCode: code, ReportDate: date, NetIncome: decimal.NewFromInt(ni)}
	}

	snapshots := []market.FinancialSnapshot{
		income("000001", q1, -50), income("000001", q2, 30),  // loss to profit
		income("000002", q1, 100), income("000002", q2, 400), // +300%
		income("000003", q1, 100), income("000003", q2, 120), // +20%, immaterial
		income("000004", q1, 0), income("000004", q2, 10),    // prev zero
		income("000005", q1, 100), income("000005", q2, 180), // +80%
		income("000006", q2, 999),                            // single period
		income("000007", q1, 100), income("000007", q2, -10), // profit to loss
	}

	res := Turnaround(snapshots, TurnaroundParams{MinGrowthRate: 50, Limit: 10})
	require.Len(t, res.Items, 4)

	codes := make([]string, len(res.Items))
	for i, r := range res.Items {
		codes[i] = r.StockCode
	}
	assert.Equal(t, []string{"000001", "000004", "000002", "000005"}, codes)

	first := res.Items[0]
	assert.Equal(t, LossToProfit, first.Type)
	require.NotNil(t, first.NetIncomeChangeRate)
	assert.InDelta(t, 160.0, *first.NetIncomeChangeRate, 1e-9)

	assert.Equal(t, LossToProfit, res.Items[1].Type)
	assert.Nil(t, res.Items[1].NetIncomeChangeRate)

	assert.Equal(t, ProfitGrowth, res.Items[2].Type)
	assert.InDelta(t, 300.0, *res.Items[2].NetIncomeChangeRate, 1e-9)

	assert.Equal(t, 1, res.Excluded[ReasonSinglePeriod])
	assert.Equal(t, 2, res.Excluded[ReasonNoTurnaround])
}

func TestSummarize(t *testing.T) {
	var snapshots []market.FinancialSnapshot
	for i := 0; i < 8; i++ {
		code := string(rune('A'+i)) + "00000"
		prev := snap(code, q1, 5, 5, 10, 100)
		prev.NetIncome = decimal.NewFromInt(-10)
		cur := snap(code, q2, float64(10+i), float64(10+i), float64(5+i), 100)
		cur.NetIncome = decimal.NewFromInt(int64(10 + i))
		cur.EPSGrowth = market.Float(50)
		snapshots = append(snapshots, prev, cur)
	}

	s := Summarize(snapshots, DefaultConfig())
	assert.Equal(t, 5, s.MagicFormulaCount)
	assert.Equal(t, 5, s.PEGCount)
	assert.Equal(t, 5, s.TurnaroundCount)
	assert.Len(t, s.MagicFormula, 5)

	// totals count every match before the summary cut
	assert.Equal(t, 8, s.MagicFormulaTotal)
	assert.Equal(t, 8, s.PEGTotal)
	assert.Equal(t, 8, s.TurnaroundTotal)
}
