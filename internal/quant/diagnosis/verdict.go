package diagnosis

// VerdictLevel 종합 판정
type VerdictLevel string

const (
	VerdictStrongBuy VerdictLevel = "STRONG_BUY"
	VerdictBuy       VerdictLevel = "BUY"
	VerdictNeutral   VerdictLevel = "NEUTRAL"
	VerdictCaution   VerdictLevel = "CAUTION"
	VerdictAvoid     VerdictLevel = "AVOID"
)

type verdictText struct {
	label       string
	description string
}

var verdictTexts = map[VerdictLevel]verdictText{
	VerdictStrongBuy: {"매수 적기", "종합 분석 결과 매수하기 좋은 시점입니다."},
	VerdictBuy:       {"매수 고려", "긍정적 요소가 많으나 일부 주의 필요합니다."},
	VerdictNeutral:   {"관망 권고", "현재 시점에서는 관망이 좋겠습니다."},
	VerdictCaution:   {"주의 요망", "부정적 신호가 감지되었습니다."},
	VerdictAvoid:     {"매수 비추천", "현재 시점에서 매수를 권하지 않습니다."},
}

// Label 한글 라벨
func (v VerdictLevel) Label() string { return verdictTexts[v].label }

// Description 판정 설명
func (v VerdictLevel) Description() string { return verdictTexts[v].description }

// VerdictFor 종합 점수 → 판정
func (c Config) VerdictFor(score int) VerdictLevel {
	switch {
	case score >= c.StrongBuyMin:
		return VerdictStrongBuy
	case score >= c.BuyMin:
		return VerdictBuy
	case score >= c.NeutralMin:
		return VerdictNeutral
	case score >= c.CautionMin:
		return VerdictCaution
	default:
		return VerdictAvoid
	}
}
