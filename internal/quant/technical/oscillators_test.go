package technical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/domain/market"
)

func TestRSI(t *testing.T) {
	t.Run("needs period+1 closes", func(t *testing.T) {
		_, ok := RSI(make([]float64, 14), 14)
		assert.False(t, ok)
	})

	t.Run("no losses is 100", func(t *testing.T) {
		closes := make([]float64, 15)
		for i := range closes {
			closes[i] = float64(10 + i)
		}
		v, ok := RSI(closes, 14)
		require.True(t, ok)
		assert.Equal(t, 100.0, v)
	})

	t.Run("simple average seed", func(t *testing.T) {
		// period 2: gains 2, losses 1 -> avgGain 1, avgLoss 0.5 -> RS 2
		v, ok := RSI([]float64{10, 12, 11}, 2)
		require.True(t, ok)
		assert.InDelta(t, 100-100/3.0, v, 1e-9)
	})

	t.Run("wilder smoothing", func(t *testing.T) {
		// seed as above, then +3: avgGain (1*1+3)/2=2, avgLoss (0.5*1+0)/2=0.25
		v, ok := RSI([]float64{10, 12, 11, 14}, 2)
		require.True(t, ok)
		assert.InDelta(t, 100-100/9.0, v, 1e-9)
	})
}

func TestMFI(t *testing.T) {
	bars := []market.DailyBar{
		{High: 11, Low: 9, Close: 10, Volume: 100},
		{High: 12, Low: 10, Close: 11, Volume: 100},
		{High: 11.5, Low: 9.5, Close: 10.5, Volume: 100},
	}

	v, ok := MFI(bars, 2)
	require.True(t, ok)
	assert.InDelta(t, 100*1100.0/2150.0, v, 1e-9)

	_, ok = MFI(bars[:2], 2)
	assert.False(t, ok)

	t.Run("no negative flow is 100", func(t *testing.T) {
		v, ok := MFI(bars[:2], 1)
		require.True(t, ok)
		assert.Equal(t, 100.0, v)
	})
}

func TestMACD(t *testing.T) {
	flat := make([]float64, 34)
	for i := range flat {
		flat[i] = 50
	}

	res := MACDOf(flat, 12, 26, 9)
	require.NotNil(t, res.MACD)
	require.NotNil(t, res.Signal)
	require.NotNil(t, res.Histogram)
	assert.InDelta(t, 0, *res.MACD, 1e-12)
	assert.InDelta(t, 0, *res.Histogram, 1e-12)

	res = MACDOf(flat[:33], 12, 26, 9)
	assert.NotNil(t, res.MACD)
	assert.Nil(t, res.Signal)

	res = MACDOf(flat[:25], 12, 26, 9)
	assert.Nil(t, res.MACD)

	t.Run("rising series has positive macd", func(t *testing.T) {
		up := make([]float64, 60)
		for i := range up {
			up[i] = float64(100 + i)
		}
		res := MACDOf(up, 12, 26, 9)
		require.NotNil(t, res.MACD)
		assert.Greater(t, *res.MACD, 0.0)
		assert.Len(t, MACDLine(up, 12, 26), 35)
	})
}
