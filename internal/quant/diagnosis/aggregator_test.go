package diagnosis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/quant/technical"
)

var day0 = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func healthySnapshot() *market.FinancialSnapshot {
	return &market.FinancialSnapshot{
		StockCode:       "005930",
		StockName:       "삼성전자",
		ReportDate:      time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		OperatingProfit: decimal.NewFromInt(100),
		NetIncome:       decimal.NewFromInt(150),
		OperatingMargin: market.Float(12),
		ROE:             market.Float(18),
		DebtRatio:       market.Float(40),
	}
}

// flows builds one flow per day from signed foreign/institution values.
func flows(foreign, inst []int64) []market.InvestorFlow {
	out := make([]market.InvestorFlow, len(foreign))
	for i := range foreign {
		out[i] = market.InvestorFlow{
			StockCode:       "005930",
			TradeDate:       day0.AddDate(0, 0, i),
			ForeignNetValue: foreign[i],
			InstNetValue:    inst[i],
		}
	}
	return out
}

func TestFinancialHealth(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	t.Run("one-time gain suspected", func(t *testing.T) {
		f := a.financialHealth(healthySnapshot())
		require.NotNil(t, f)
		require.NotNil(t, f.ProfitGapRatio)
		assert.InDelta(t, 50.0, *f.ProfitGapRatio, 1e-9)
		assert.True(t, f.IsOneTimeGainSuspected)
		// 50 +15 margin +15 roe +10 debt -20 one-time gain
		assert.Equal(t, 70, f.Score)
	})

	t.Run("operating loss is never a one-time gain", func(t *testing.T) {
		f := a.financialHealth(&market.FinancialSnapshot{
			OperatingProfit: decimal.NewFromInt(-100),
			NetIncome:       decimal.NewFromInt(-50),
			OperatingMargin: market.Float(-5),
			ROE:             market.Float(-3),
			DebtRatio:       market.Float(250),
		})
		require.NotNil(t, f.ProfitGapRatio)
		assert.InDelta(t, 50.0, *f.ProfitGapRatio, 1e-9)
		assert.False(t, f.IsOneTimeGainSuspected)
		assert.Equal(t, 10, f.Score)
	})

	t.Run("zero operating profit has no gap", func(t *testing.T) {
		f := a.financialHealth(&market.FinancialSnapshot{NetIncome: decimal.NewFromInt(10)})
		assert.Nil(t, f.ProfitGapRatio)
		assert.Equal(t, 50, f.Score)
	})

	t.Run("no snapshot", func(t *testing.T) {
		assert.Nil(t, a.financialHealth(nil))
	})
}

func TestSupplyDemand(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	t.Run("both buying", func(t *testing.T) {
		sd := a.supplyDemand(flows(
			[]int64{10, 10, 10, -5, 10},
			[]int64{5, 5, 5, -5, -5},
		))
		require.NotNil(t, sd)
		assert.Equal(t, 4, sd.ForeignBuyDays)
		assert.Equal(t, 3, sd.InstBuyDays)
		assert.True(t, sd.IsBothBuying)
		assert.False(t, sd.IsBothSelling)
		assert.Equal(t, int64(35), sd.ForeignNet5)
		assert.Equal(t, 100, sd.Score)
	})

	t.Run("both selling", func(t *testing.T) {
		sd := a.supplyDemand(flows(
			[]int64{-10, -10, -10, 5, -10},
			[]int64{-5, -5, -5, -5, -5},
		))
		assert.Equal(t, 1, sd.ForeignBuyDays)
		assert.Equal(t, 0, sd.InstBuyDays)
		assert.True(t, sd.IsBothSelling)
		assert.Equal(t, 20, sd.Score)
	})

	t.Run("only the trailing five days count", func(t *testing.T) {
		sd := a.supplyDemand(flows(
			[]int64{-99, -99, 10, 10, 10, 10, 10},
			[]int64{-99, -99, -1, -1, -1, -1, -1},
		))
		assert.Equal(t, 5, sd.Days)
		assert.Equal(t, 5, sd.ForeignBuyDays)
		assert.Equal(t, int64(50), sd.ForeignNet5)
		// 50 + (15+15) - 10
		assert.Equal(t, 70, sd.Score)
	})

	t.Run("quantities when values are missing", func(t *testing.T) {
		fl := flows(make([]int64, 5), make([]int64, 5))
		for i := range fl {
			fl[i].ForeignNetQty = 100
			fl[i].InstNetQty = -100
		}
		sd := a.supplyDemand(fl)
		assert.Equal(t, 5, sd.ForeignBuyDays)
		assert.True(t, sd.IsForeignBuying)
		assert.False(t, sd.IsInstBuying)
	})

	t.Run("no flows", func(t *testing.T) {
		assert.Nil(t, a.supplyDemand(nil))
	})
}

func TestDiagnose_WeightedOverall(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	d, err := a.Diagnose(Input{
		StockCode:  "005930",
		Financial:  healthySnapshot(),
		Flows:      flows([]int64{10, 10, 10, -5, 10}, []int64{5, 5, 5, -5, -5}),
		Indicators: &technical.Indicators{BuySignalStrength: 62, AsOf: day0.AddDate(0, 0, 4)},
	})
	require.NoError(t, err)

	require.NotNil(t, d.FinancialScore)
	require.NotNil(t, d.SupplyDemandScore)
	require.NotNil(t, d.TechnicalScore)
	require.NotNil(t, d.OverallScore)

	// 0.35*70 + 0.30*100 + 0.35*62 = 76.2
	assert.Equal(t, 76, *d.OverallScore)
	assert.Equal(t, VerdictBuy, d.Verdict)
	assert.Equal(t, "매수 고려", d.VerdictLabel)
	assert.Equal(t, "삼성전자", d.StockName)
	assert.Equal(t, day0.AddDate(0, 0, 4), d.AnalysisDate)
}

func TestDiagnose_RenormalizesMissingScores(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	d, err := a.Diagnose(Input{
		StockCode:  "005930",
		Financial:  healthySnapshot(),
		Indicators: &technical.Indicators{BuySignalStrength: 62},
	})
	require.NoError(t, err)
	assert.Nil(t, d.SupplyDemand)
	assert.Nil(t, d.SupplyDemandScore)
	// (0.35*70 + 0.35*62) / 0.70
	require.NotNil(t, d.OverallScore)
	assert.Equal(t, 66, *d.OverallScore)

	d, err = a.Diagnose(Input{StockCode: "005930", Indicators: &technical.Indicators{BuySignalStrength: 40}})
	require.NoError(t, err)
	assert.Equal(t, 40, *d.OverallScore)
	assert.Equal(t, VerdictCaution, d.Verdict)
}

func TestDiagnose_NoData(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	d, err := a.Diagnose(Input{StockCode: "005930"})
	require.NoError(t, err)
	assert.Nil(t, d.OverallScore)
	assert.Empty(t, d.Verdict)
	assert.NotEmpty(t, d.VerdictDescription)
	assert.Empty(t, d.Warnings)
	assert.Empty(t, d.Positives)
}

func TestDiagnose_UnorderedFlows(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	fl := flows([]int64{1, 2, 3}, []int64{1, 2, 3})
	fl[0], fl[2] = fl[2], fl[0]
	_, err := a.Diagnose(Input{StockCode: "005930", Flows: fl})
	assert.ErrorIs(t, err, market.ErrUnorderedSeries)
	assert.True(t, market.IsInvalidInput(err))
}

func TestDiagnose_WarningsAndPositivesOrder(t *testing.T) {
	a := NewAggregator(DefaultConfig())

	risky := healthySnapshot()
	risky.DebtRatio = market.Float(250)

	d, err := a.Diagnose(Input{
		StockCode: "005930",
		Financial: risky,
		Flows:     flows([]int64{-10, -10, -10, 5, -10}, []int64{-5, -5, -5, -5, -5}),
		Indicators: &technical.Indicators{
			RSIStatus:   technical.StatusOverbought,
			IsDeadCross: true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"일회성 이익 의심: 순이익이 영업이익 대비 50.0% 높음",
		"외국인+기관 동반 매도 중",
		"RSI 과열 구간 (단기 조정 가능성)",
		"데드크로스 발생",
		"부채비율 250.0% (재무 위험)",
	}, d.Warnings)
	assert.Equal(t, []string{"영업이익률 12.0% (양호)"}, d.Positives)

	d, err = a.Diagnose(Input{
		StockCode: "005930",
		Financial: healthySnapshot(),
		Flows:     flows([]int64{10, 10, 10, -5, 10}, []int64{5, 5, 5, -5, -5}),
		Indicators: &technical.Indicators{
			RSIStatus:     technical.StatusOversold,
			IsArrangedUp:  true,
			IsGoldenCross: true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"영업이익률 12.0% (양호)",
		"외국인+기관 동반 매수 중",
		"이평선 정배열 (상승 추세)",
		"골든크로스 발생",
		"RSI 침체 구간 (반등 기회)",
	}, d.Positives)
}

func TestVerdictFor(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		score int
		want  VerdictLevel
	}{
		{100, VerdictStrongBuy},
		{80, VerdictStrongBuy},
		{79, VerdictBuy},
		{65, VerdictBuy},
		{64, VerdictNeutral},
		{45, VerdictNeutral},
		{44, VerdictCaution},
		{30, VerdictCaution},
		{29, VerdictAvoid},
		{0, VerdictAvoid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.VerdictFor(tt.score), "score=%d", tt.score)
	}
	assert.Equal(t, "매수 비추천", VerdictAvoid.Label())
	assert.Equal(t, "현재 시점에서는 관망이 좋겠습니다.", VerdictNeutral.Description())
}
