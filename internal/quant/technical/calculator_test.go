package technical

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/domain/market"
)

func barsFrom(closes []float64) []market.DailyBar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]market.DailyBar, len(closes))
	for i, c := range closes {
		bars[i] = market.DailyBar{
			StockCode: "005930",
			Date:      start.AddDate(0, 0, i),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return bars
}

// zigzagUptrend alternates -2 / +3 so the trend is up while RSI and MFI stay neutral.
func zigzagUptrend(n int) []float64 {
	closes := make([]float64, n)
	closes[0] = 1000
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 3
		} else {
			closes[i] = closes[i-1] - 2
		}
	}
	return closes
}

func TestCalculate_UptrendScenario(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	ind, err := calc.Calculate("005930", barsFrom(zigzagUptrend(130)))
	require.NoError(t, err)

	assert.True(t, ind.HasEnoughDataFor120MA)
	assert.Equal(t, 130, ind.DataCount)
	require.NotNil(t, ind.MA120)
	assert.True(t, ind.IsArrangedUp)
	assert.False(t, ind.IsArrangedDown)
	assert.True(t, ind.IsAboveMA20)

	require.NotNil(t, ind.RSI14)
	assert.Greater(t, *ind.RSI14, 30.0)
	assert.Less(t, *ind.RSI14, 70.0)
	assert.Equal(t, StatusNeutral, ind.RSIStatus)
	assert.Equal(t, StatusNeutral, ind.MFIStatus)

	assert.GreaterOrEqual(t, ind.BuySignalStrength, 60)
	assert.True(t, ind.OverallSignal.IsBuy(), "got %s", ind.OverallSignal)
	assert.Contains(t, ind.SignalDescription, "이평선 정배열")
}

func TestCalculate_ShortHistory(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	ind, err := calc.Calculate("005930", barsFrom(closes))
	require.NoError(t, err)

	assert.False(t, ind.HasEnoughDataFor120MA)
	assert.NotNil(t, ind.MA5)
	assert.NotNil(t, ind.Disparity5)
	assert.Nil(t, ind.MA20)
	assert.Nil(t, ind.MA60)
	assert.Nil(t, ind.MA120)
	assert.Nil(t, ind.Disparity20)
	assert.Nil(t, ind.Disparity60)
	assert.Nil(t, ind.MACD)
	assert.Nil(t, ind.BollingerMiddle)
	assert.False(t, ind.IsArrangedUp)
	assert.False(t, ind.IsGoldenCross)

	// monotonically rising: no losses
	require.NotNil(t, ind.RSI14)
	assert.Equal(t, 100.0, *ind.RSI14)
	assert.Equal(t, StatusOverbought, ind.RSIStatus)
}

func TestCalculate_InvalidInput(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	_, err := calc.Calculate("005930", nil)
	assert.ErrorIs(t, err, market.ErrEmptySeries)

	bars := barsFrom([]float64{1, 2, 3})
	bars[0], bars[2] = bars[2], bars[0]
	_, err = calc.Calculate("005930", bars)
	assert.ErrorIs(t, err, market.ErrUnorderedSeries)
}

func TestCalculate_GoldenCross(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	closes := make([]float64, 21)
	for i := range closes {
		closes[i] = 100
	}
	closes[20] = 110

	ind, err := calc.Calculate("005930", barsFrom(closes))
	require.NoError(t, err)

	assert.True(t, ind.IsGoldenCross)
	assert.False(t, ind.IsDeadCross)
	assert.True(t, ind.IsBreakout)
	assert.Contains(t, ind.SignalDescription, "골든크로스 발생")
}

func TestDetectCross(t *testing.T) {
	tests := []struct {
		name                             string
		prevShort, prevLong, short, long float64
		golden, dead                     bool
	}{
		{"short crosses above", 19, 20, 21, 20, true, false},
		{"touching then above", 20, 20, 20.5, 20, true, false},
		{"equal today is no cross", 19, 20, 20, 20, false, false},
		{"already above", 21, 20, 22, 20, false, false},
		{"short crosses below", 21, 20, 19, 20, false, true},
		{"reversed inequality", 20, 19, 20, 21, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			golden, dead := DetectCross(tt.prevShort, tt.prevLong, tt.short, tt.long)
			assert.Equal(t, tt.golden, golden)
			assert.Equal(t, tt.dead, dead)
		})
	}
}

func TestBollingerSqueeze(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	volatile := make([]float64, 40)
	for i := range volatile {
		volatile[i] = 100
		if i%2 == 1 {
			volatile[i] = 110
		}
	}

	t.Run("constant width is not a squeeze", func(t *testing.T) {
		ind, err := calc.Calculate("005930", barsFrom(volatile))
		require.NoError(t, err)
		require.NotNil(t, ind.BollingerBandWidth)
		assert.False(t, ind.IsSqueeze)
	})

	t.Run("narrowing band is a squeeze", func(t *testing.T) {
		closes := append([]float64{}, volatile...)
		for i := 0; i < 20; i++ {
			closes = append(closes, 105)
		}
		ind, err := calc.Calculate("005930", barsFrom(closes))
		require.NoError(t, err)
		assert.True(t, ind.IsSqueeze)
		assert.Contains(t, ind.SignalDescription, "볼린저 밴드 수축")
	})

	t.Run("not enough history for squeeze", func(t *testing.T) {
		ind, err := calc.Calculate("005930", barsFrom(volatile[:30]))
		require.NoError(t, err)
		assert.NotNil(t, ind.BollingerBandWidth)
		assert.False(t, ind.IsSqueeze)
	})
}
