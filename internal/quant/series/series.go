// Package series provides rolling-window arithmetic over ordered daily values.
//
// Every function evaluates "as of" the last element of its input. A window that
// cannot be filled reports ok=false instead of padding with zeros.
package series

import (
	"math"

	"github.com/wonny/quantdiag/internal/domain/market"
)

// SMA 마지막 window개 값의 단순 이동평균
func SMA(values []float64, window int) (float64, bool) {
	if window <= 0 || len(values) < window {
		return 0, false
	}
	return Mean(values[len(values)-window:]), true
}

// SMASeries returns the SMA at every index from window-1 onward, so
// out[i] is the average of values[i : i+window].
func SMASeries(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	out := make([]float64, 0, len(values)-window+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// Stdev 마지막 window개 값의 모표준편차
func Stdev(values []float64, window int) (float64, bool) {
	mean, ok := SMA(values, window)
	if !ok {
		return 0, false
	}
	var sq float64
	for _, v := range values[len(values)-window:] {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(window)), true
}

// EMASeries 지수 이동평균 시계열
// multiplier 2/(period+1), seed = 처음 period개 값의 SMA.
// out[0]은 values[period-1] 시점의 값이다.
func EMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, 0, len(values)-period+1)
	prev := Mean(values[:period])
	out = append(out, prev)
	for _, v := range values[period:] {
		prev = (v-prev)*k + prev
		out = append(out, prev)
	}
	return out
}

// EMA 마지막 시점의 지수 이동평균
func EMA(values []float64, period int) (float64, bool) {
	s := EMASeries(values, period)
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Sum 합계
func Sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// Mean 평균 (빈 슬라이스는 0)
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Last 마지막 n개 (n이 길이보다 크면 전체)
func Last[T any](values []T, n int) []T {
	if n >= len(values) {
		return values
	}
	if n <= 0 {
		return values[:0]
	}
	return values[len(values)-n:]
}

// PercentChange (to-from)/from*100, from이 0이면 정의되지 않음
func PercentChange(from, to float64) (float64, bool) {
	if from == 0 {
		return 0, false
	}
	return (to - from) / from * 100, true
}

// Clamp v를 [lo, hi] 범위로 제한
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Ptr returns a pointer to v when ok, nil otherwise.
func Ptr(v float64, ok bool) *float64 {
	if !ok {
		return nil
	}
	return &v
}

// =============================================================================
// Bar extractors
// =============================================================================

// Closes 종가 시계열
func Closes(bars []market.DailyBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// TypicalPrices (H+L+C)/3 시계열
func TypicalPrices(bars []market.DailyBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = (b.High + b.Low + b.Close) / 3
	}
	return out
}

// Volumes 거래량 시계열
func Volumes(bars []market.DailyBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = float64(b.Volume)
	}
	return out
}
