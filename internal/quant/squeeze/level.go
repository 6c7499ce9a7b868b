package squeeze

// Level 숏스퀴즈 단계
type Level string

const (
	LevelCritical Level = "CRITICAL"
	LevelHigh     Level = "HIGH"
	LevelMedium   Level = "MEDIUM"
	LevelLow      Level = "LOW"
)

var levelDescriptions = map[Level]string{
	LevelCritical: "숏스퀴즈 임박! 대차잔고 급감 + 외국인 매수 + 주가 상승",
	LevelHigh:     "숏커버링 진행 중. 추가 상승 가능성 높음",
	LevelMedium:   "숏커버링 초기 신호. 관찰 필요",
	LevelLow:      "숏커버링 가능성 낮음",
}

// Description 단계별 고정 설명
func (l Level) Description() string { return levelDescriptions[l] }

// LevelFor 점수 → 단계
func (c Config) LevelFor(score int) Level {
	switch {
	case score >= c.CriticalMin:
		return LevelCritical
	case score >= c.HighMin:
		return LevelHigh
	case score >= c.MediumMin:
		return LevelMedium
	default:
		return LevelLow
	}
}
