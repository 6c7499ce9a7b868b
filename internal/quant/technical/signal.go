package technical

import (
	"math"
	"strings"

	"github.com/wonny/quantdiag/internal/quant/series"
)

// Strength 매수 신호 강도 (0~100, 중립 50)
func (c *Calculator) Strength(ind *Indicators) int {
	w := c.cfg.Signal
	score := w.Base

	if ind.IsGoldenCross {
		score += w.Cross
	}
	if ind.IsDeadCross {
		score -= w.Cross
	}
	if ind.IsArrangedUp {
		score += w.Arrangement
	}
	if ind.IsArrangedDown {
		score -= w.Arrangement
	}

	switch ind.RSIStatus {
	case StatusOversold:
		score += w.RSI
	case StatusOverbought:
		score -= w.RSI
	}
	switch ind.MFIStatus {
	case StatusOversold:
		score += w.MFI
	case StatusOverbought:
		score -= w.MFI
	}

	if ind.IsBreakout {
		score += w.Breakout
	}

	return int(math.Round(series.Clamp(score, 0, 100)))
}

// Describe 신호 설명 문구
func Describe(ind *Indicators) string {
	var parts []string
	if ind.IsGoldenCross {
		parts = append(parts, "골든크로스 발생")
	}
	if ind.IsDeadCross {
		parts = append(parts, "데드크로스 발생")
	}
	if ind.IsArrangedUp {
		parts = append(parts, "이평선 정배열")
	}
	if ind.IsArrangedDown {
		parts = append(parts, "이평선 역배열")
	}
	switch ind.RSIStatus {
	case StatusOversold:
		parts = append(parts, "RSI 과매도")
	case StatusOverbought:
		parts = append(parts, "RSI 과매수")
	}
	switch ind.MFIStatus {
	case StatusOversold:
		parts = append(parts, "MFI 과매도")
	case StatusOverbought:
		parts = append(parts, "MFI 과매수")
	}
	if ind.IsBreakout {
		parts = append(parts, "볼린저 상단 돌파")
	}
	if ind.IsSqueeze {
		parts = append(parts, "볼린저 밴드 수축")
	}

	if len(parts) == 0 {
		return "특이 신호 없음"
	}
	return strings.Join(parts, " / ")
}
