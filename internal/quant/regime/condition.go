package regime

// MarketCondition ADR 기반 시장 상태
type MarketCondition string

const (
	ConditionOverheated  MarketCondition = "OVERHEATED"
	ConditionNormal      MarketCondition = "NORMAL"
	ConditionOversold    MarketCondition = "OVERSOLD"
	ConditionExtremeFear MarketCondition = "EXTREME_FEAR"
)

type conditionInfo struct {
	label      string
	emoji      string
	diagnosis  string
	suggestion string
}

var conditions = map[MarketCondition]conditionInfo{
	ConditionOverheated: {
		label:      "과열",
		emoji:      "🔥 과열 (현금 확보 필요)",
		diagnosis:  "시장이 과열 상태입니다.",
		suggestion: "시장이 과열 상태입니다. 신규 매수보다 현금 비중 확대를 고려하세요.",
	},
	ConditionNormal: {
		label:      "보통",
		emoji:      "☁️ 보통",
		diagnosis:  "시장이 정상 범위입니다.",
		suggestion: "시장이 정상 범위입니다. 개별 종목 분석에 집중하세요.",
	},
	ConditionOversold: {
		label:      "침체",
		emoji:      "💧 침체 (저점 매수 기회)",
		diagnosis:  "시장이 침체 구간입니다.",
		suggestion: "시장이 과매도 구간입니다. 우량주 분할 매수를 고려하세요.",
	},
	ConditionExtremeFear: {
		label:      "공포",
		emoji:      "🥶 극심한 공포 (적극 매수 검토)",
		diagnosis:  "극심한 공포 구간입니다.",
		suggestion: "극심한 공포 구간입니다. 역발상 투자의 적기일 수 있습니다.",
	},
}

// Label 한글 라벨
func (c MarketCondition) Label() string { return conditions[c].label }

// Emoji 이모지 포함 표시 문구
func (c MarketCondition) Emoji() string { return conditions[c].emoji }

// Suggestion 투자 전략 문구
func (c MarketCondition) Suggestion() string { return conditions[c].suggestion }

// Diagnosis 진단 문장
func (c MarketCondition) Diagnosis() string { return conditions[c].diagnosis }

// ShouldAlert 알림 대상 (과열, 극심한 공포)
func (c MarketCondition) ShouldAlert() bool {
	return c == ConditionOverheated || c == ConditionExtremeFear
}
