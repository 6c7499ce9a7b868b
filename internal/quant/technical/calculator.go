// Package technical computes moving averages, oscillators, Bollinger bands and
// cross/arrangement flags from an ascending daily bar series, and synthesizes
// them into a single buy-signal strength.
package technical

import (
	"fmt"

	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/quant/series"
)

// Calculator 기술적 지표 계산기
// 상태를 갖지 않으며 동시 호출에 안전하다.
type Calculator struct {
	cfg Config
}

// NewCalculator 계산기 생성
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// Config 현재 설정
func (c *Calculator) Config() Config {
	return c.cfg
}

// Calculate 마지막 일봉 기준 지표 계산
// bars는 단일 종목, 날짜 오름차순이어야 한다.
func (c *Calculator) Calculate(code string, bars []market.DailyBar) (*Indicators, error) {
	if err := market.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("calculate indicators %s: %w", code, err)
	}

	closes := series.Closes(bars)
	last := bars[len(bars)-1]

	ind := &Indicators{
		StockCode:             code,
		AsOf:                  last.Date,
		Close:                 last.Close,
		DataCount:             len(bars),
		HasEnoughDataFor120MA: len(bars) >= 120,
	}

	c.movingAverages(ind, closes)
	c.crossAndArrangement(ind, closes)

	if rsi, ok := RSI(closes, c.cfg.RSIPeriod); ok {
		ind.RSI14 = &rsi
		ind.RSIStatus = classify(rsi, c.cfg.RSIOverbought, c.cfg.RSIOversold)
	}
	if mfi, ok := MFI(bars, c.cfg.MFIPeriod); ok {
		ind.MFI = &mfi
		ind.MFIStatus = classify(mfi, c.cfg.MFIOverbought, c.cfg.MFIOversold)
	}

	macd := MACDOf(closes, c.cfg.MACDFast, c.cfg.MACDSlow, c.cfg.MACDSignal)
	ind.MACD, ind.MACDSignal, ind.MACDHistogram = macd.MACD, macd.Signal, macd.Histogram

	c.bollinger(ind, closes)

	strength := c.Strength(ind)
	ind.BuySignalStrength = strength
	ind.OverallSignal = c.cfg.Signal.SignalFor(float64(strength))
	ind.SignalDescription = Describe(ind)

	return ind, nil
}

func (c *Calculator) movingAverages(ind *Indicators, closes []float64) {
	ind.MA5 = series.Ptr(series.SMA(closes, 5))
	ind.MA20 = series.Ptr(series.SMA(closes, 20))
	ind.MA60 = series.Ptr(series.SMA(closes, 60))
	ind.MA120 = series.Ptr(series.SMA(closes, 120))

	ind.Disparity5 = disparity(ind.Close, ind.MA5)
	ind.Disparity20 = disparity(ind.Close, ind.MA20)
	ind.Disparity60 = disparity(ind.Close, ind.MA60)

	ind.IsAboveMA5 = above(ind.Close, ind.MA5)
	ind.IsAboveMA20 = above(ind.Close, ind.MA20)
	ind.IsAboveMA60 = above(ind.Close, ind.MA60)
	ind.IsAboveMA120 = above(ind.Close, ind.MA120)
}

func (c *Calculator) crossAndArrangement(ind *Indicators, closes []float64) {
	if ind.MA5 != nil && ind.MA20 != nil {
		prev := closes[:len(closes)-1]
		prevMA5, ok5 := series.SMA(prev, 5)
		prevMA20, ok20 := series.SMA(prev, 20)
		if ok5 && ok20 {
			ind.IsGoldenCross, ind.IsDeadCross = DetectCross(prevMA5, prevMA20, *ind.MA5, *ind.MA20)
		}
	}

	if ind.MA5 != nil && ind.MA20 != nil && ind.MA60 != nil {
		ind.IsArrangedUp = *ind.MA5 > *ind.MA20 && *ind.MA20 > *ind.MA60
		ind.IsArrangedDown = *ind.MA5 < *ind.MA20 && *ind.MA20 < *ind.MA60
	}
}

// DetectCross 단기/장기 이평선 교차 판단
// golden: 전일 단기 <= 장기, 당일 단기 > 장기. dead는 그 반대.
func DetectCross(prevShort, prevLong, short, long float64) (golden, dead bool) {
	golden = prevShort <= prevLong && short > long
	dead = prevShort >= prevLong && short < long
	return golden, dead
}

func disparity(close float64, ma *float64) *float64 {
	if ma == nil || *ma == 0 {
		return nil
	}
	v := (close - *ma) / *ma * 100
	return &v
}

func above(close float64, ma *float64) bool {
	return ma != nil && close > *ma
}
