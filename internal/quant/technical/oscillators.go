package technical

import (
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/quant/series"
)

// RSI Wilder 방식 상대강도지수
// 첫 평균은 처음 period개 변동의 단순평균, 이후 avg = (prev*(period-1) + x)/period.
// period+1개 종가가 필요하다. 평균 하락폭이 0이면 100.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 0, false
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		g, l := gainLoss(closes[i] - closes[i-1])
		avgGain += g
		avgLoss += l
	}
	p := float64(period)
	avgGain /= p
	avgLoss /= p

	for i := period + 1; i < len(closes); i++ {
		g, l := gainLoss(closes[i] - closes[i-1])
		avgGain = (avgGain*(p-1) + g) / p
		avgLoss = (avgLoss*(p-1) + l) / p
	}

	if avgLoss == 0 {
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

func gainLoss(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

// MFI 자금흐름지수
// money flow = typical price * volume, 전일 대비 typical price 방향으로 부호 결정 (동일하면 제외).
// period+1개 일봉이 필요하다. 음(-)의 흐름 합이 0이면 100.
func MFI(bars []market.DailyBar, period int) (float64, bool) {
	if period <= 0 || len(bars) < period+1 {
		return 0, false
	}

	tp := series.TypicalPrices(bars)
	var positive, negative float64
	for i := len(bars) - period; i < len(bars); i++ {
		flow := tp[i] * float64(bars[i].Volume)
		switch {
		case tp[i] > tp[i-1]:
			positive += flow
		case tp[i] < tp[i-1]:
			negative += flow
		}
	}

	if negative == 0 {
		return 100, true
	}
	return 100 - 100/(1+positive/negative), true
}

// MACDResult MACD 결과 (부족한 값은 nil)
type MACDResult struct {
	MACD      *float64
	Signal    *float64
	Histogram *float64
}

// MACDOf MACD = EMA(fast) - EMA(slow), signal = MACD 시계열의 EMA(signal)
func MACDOf(closes []float64, fast, slow, signal int) MACDResult {
	var res MACDResult

	line := MACDLine(closes, fast, slow)
	if len(line) == 0 {
		return res
	}
	m := line[len(line)-1]
	res.MACD = &m

	sig, ok := series.EMA(line, signal)
	if !ok {
		return res
	}
	h := m - sig
	res.Signal = &sig
	res.Histogram = &h
	return res
}

// MACDLine MACD 시계열, out[0]은 closes[slow-1] 시점
func MACDLine(closes []float64, fast, slow int) []float64 {
	fastEMA := series.EMASeries(closes, fast)
	slowEMA := series.EMASeries(closes, slow)
	if len(slowEMA) == 0 || len(fastEMA) < len(slowEMA) {
		return nil
	}
	offset := len(fastEMA) - len(slowEMA)
	out := make([]float64, len(slowEMA))
	for i := range slowEMA {
		out[i] = fastEMA[i+offset] - slowEMA[i]
	}
	return out
}
