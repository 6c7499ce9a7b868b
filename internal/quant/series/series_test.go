package series

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zigzag produces a deterministic non-monotone price path.
func zigzag(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)*0.7 + 5*math.Sin(float64(i)/3)
	}
	return out
}

func TestSMA(t *testing.T) {
	t.Run("insufficient window is absent", func(t *testing.T) {
		_, ok := SMA([]float64{1, 2, 3}, 5)
		assert.False(t, ok)
	})

	t.Run("zero window is absent", func(t *testing.T) {
		_, ok := SMA([]float64{1, 2, 3}, 0)
		assert.False(t, ok)
	})

	t.Run("trailing window", func(t *testing.T) {
		v, ok := SMA([]float64{1, 2, 3, 4, 5}, 3)
		require.True(t, ok)
		assert.InDelta(t, 4.0, v, 1e-12)
	})

	t.Run("matches talib", func(t *testing.T) {
		values := zigzag(80)
		ref := talib.Sma(values, 20)
		got := SMASeries(values, 20)
		require.Len(t, got, len(values)-19)
		for i, v := range got {
			assert.InDelta(t, ref[i+19], v, 1e-9, "index %d", i+19)
		}
		last, ok := SMA(values, 20)
		require.True(t, ok)
		assert.InDelta(t, ref[len(ref)-1], last, 1e-9)
	})
}

func TestStdev(t *testing.T) {
	v, ok := Stdev([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-12)

	_, ok = Stdev([]float64{1}, 2)
	assert.False(t, ok)
}

func TestEMA(t *testing.T) {
	t.Run("seed is the first window SMA", func(t *testing.T) {
		s := EMASeries([]float64{1, 2, 3, 4}, 3)
		require.Len(t, s, 2)
		assert.InDelta(t, 2.0, s[0], 1e-12)
		// k = 0.5: (4-2)*0.5 + 2
		assert.InDelta(t, 3.0, s[1], 1e-12)
	})

	t.Run("insufficient data", func(t *testing.T) {
		_, ok := EMA([]float64{1, 2}, 3)
		assert.False(t, ok)
	})

	t.Run("matches talib", func(t *testing.T) {
		values := zigzag(120)
		for _, period := range []int{9, 12, 26} {
			ref := talib.Ema(values, period)
			got := EMASeries(values, period)
			require.Len(t, got, len(values)-period+1)
			for i, v := range got {
				assert.InDelta(t, ref[i+period-1], v, 1e-9, "period %d index %d", period, i)
			}
		}
	})
}

func TestPercentChange(t *testing.T) {
	v, ok := PercentChange(200, 150)
	require.True(t, ok)
	assert.InDelta(t, -25.0, v, 1e-12)

	_, ok = PercentChange(0, 10)
	assert.False(t, ok)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, []int{3, 4}, Last([]int{1, 2, 3, 4}, 2))
	assert.Equal(t, []int{1, 2}, Last([]int{1, 2}, 5))
	assert.Equal(t, 100.0, Clamp(130, 0, 100))
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Nil(t, Ptr(1, false))
	assert.Equal(t, 1.5, *Ptr(1.5, true))
}
