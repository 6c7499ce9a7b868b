package technical

// =============================================================================
// TechnicalSignal
// =============================================================================

// TechnicalSignal 종합 기술적 신호
type TechnicalSignal string

const (
	SignalStrongBuy  TechnicalSignal = "STRONG_BUY"
	SignalBuy        TechnicalSignal = "BUY"
	SignalNeutral    TechnicalSignal = "NEUTRAL"
	SignalSell       TechnicalSignal = "SELL"
	SignalStrongSell TechnicalSignal = "STRONG_SELL"
)

type signalText struct {
	label       string
	description string
}

var signalTexts = map[TechnicalSignal]signalText{
	SignalStrongBuy:  {"강력 매수", "여러 지표가 동시에 상승 신호를 보내고 있습니다."},
	SignalBuy:        {"매수", "상승 신호가 우세합니다."},
	SignalNeutral:    {"중립", "뚜렷한 방향성이 없습니다."},
	SignalSell:       {"매도", "하락 신호가 우세합니다."},
	SignalStrongSell: {"강력 매도", "여러 지표가 동시에 하락 신호를 보내고 있습니다."},
}

// Label 한글 라벨
func (s TechnicalSignal) Label() string { return signalTexts[s].label }

// Description 신호 설명
func (s TechnicalSignal) Description() string { return signalTexts[s].description }

// IsBuy 매수 계열 여부
func (s TechnicalSignal) IsBuy() bool { return s == SignalStrongBuy || s == SignalBuy }

// IsSell 매도 계열 여부
func (s TechnicalSignal) IsSell() bool { return s == SignalSell || s == SignalStrongSell }

// SignalFor maps a 0-100 strength onto contiguous bands.
func (w SignalWeights) SignalFor(strength float64) TechnicalSignal {
	switch {
	case strength >= w.StrongBuyMin:
		return SignalStrongBuy
	case strength >= w.BuyMin:
		return SignalBuy
	case strength >= w.NeutralMin:
		return SignalNeutral
	case strength >= w.SellMin:
		return SignalSell
	default:
		return SignalStrongSell
	}
}

// =============================================================================
// Oscillator status (RSI / MFI)
// =============================================================================

// OscillatorStatus RSI/MFI 구간
type OscillatorStatus string

const (
	StatusOverbought OscillatorStatus = "OVERBOUGHT"
	StatusNeutral    OscillatorStatus = "NEUTRAL"
	StatusOversold   OscillatorStatus = "OVERSOLD"
)

var statusLabels = map[OscillatorStatus]string{
	StatusOverbought: "과열",
	StatusNeutral:    "중립",
	StatusOversold:   "침체",
}

// Label 한글 라벨
func (s OscillatorStatus) Label() string { return statusLabels[s] }

// RSIDescription RSI 구간 설명
func (s OscillatorStatus) RSIDescription() string {
	switch s {
	case StatusOverbought:
		return "RSI 70 이상 - 단기 조정 가능성"
	case StatusOversold:
		return "RSI 30 이하 - 반등 가능성"
	case StatusNeutral:
		return "RSI 30~70 - 추세 지속"
	}
	return ""
}

// MFIDescription MFI 구간 설명
func (s OscillatorStatus) MFIDescription() string {
	switch s {
	case StatusOverbought:
		return "MFI 80 이상 - 자금 유입 과열"
	case StatusOversold:
		return "MFI 20 이하 - 자금 유출 과도, 반등 가능성"
	case StatusNeutral:
		return "MFI 20~80 - 자금 흐름 보통"
	}
	return ""
}

func classify(v, overbought, oversold float64) OscillatorStatus {
	switch {
	case v >= overbought:
		return StatusOverbought
	case v <= oversold:
		return StatusOversold
	default:
		return StatusNeutral
	}
}
