package technical

import "github.com/wonny/quantdiag/internal/quant/series"

// Band 볼린저 밴드
type Band struct {
	Upper     float64
	Middle    float64
	Lower     float64
	BandWidth float64
}

// BollingerOf 마지막 시점 볼린저 밴드 (middle이 0이면 정의되지 않음)
func BollingerOf(closes []float64, period int, k float64) (Band, bool) {
	mid, ok := series.SMA(closes, period)
	if !ok || mid == 0 {
		return Band{}, false
	}
	sd, _ := series.Stdev(closes, period)
	b := Band{
		Upper:  mid + k*sd,
		Middle: mid,
		Lower:  mid - k*sd,
	}
	b.BandWidth = (b.Upper - b.Lower) / mid * 100
	return b, true
}

func (c *Calculator) bollinger(ind *Indicators, closes []float64) {
	period, k := c.cfg.BollingerPeriod, c.cfg.BollingerK

	band, ok := BollingerOf(closes, period, k)
	if !ok {
		return
	}
	ind.BollingerUpper = &band.Upper
	ind.BollingerMiddle = &band.Middle
	ind.BollingerLower = &band.Lower
	ind.BollingerBandWidth = &band.BandWidth

	n := len(closes)
	if prev, ok := BollingerOf(closes[:n-1], period, k); ok {
		ind.IsBreakout = closes[n-2] <= prev.Upper && closes[n-1] > band.Upper
	}

	// trailing bandwidth mean includes the current bar
	lookback := c.cfg.SqueezeLookback
	if n-lookback+1 < period {
		return
	}
	widths := make([]float64, 0, lookback)
	for end := n - lookback + 1; end <= n; end++ {
		b, ok := BollingerOf(closes[:end], period, k)
		if !ok {
			return
		}
		widths = append(widths, b.BandWidth)
	}
	ind.IsSqueeze = band.BandWidth <= c.cfg.SqueezeRatio*series.Mean(widths)
}
