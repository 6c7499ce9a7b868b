package diagnosis

// Weights 종합 점수 가중치 (합이 1일 필요는 없음, 존재하는 항목끼리 재정규화)
type Weights struct {
	Financial    float64 `toml:"financial" json:"financial"`
	SupplyDemand float64 `toml:"supply_demand" json:"supply_demand"`
	Technical    float64 `toml:"technical" json:"technical"`
}

// Config 종목 진단 설정
type Config struct {
	Weights Weights `toml:"weights" json:"weights"`

	// OneTimeGainGap 순이익이 영업이익을 이 비율(%) 이상 초과하면 일회성 이익 의심
	OneTimeGainGap float64 `toml:"one_time_gain_gap" json:"one_time_gain_gap"`
	// HighDebtRatio 부채비율 경고 기준 (%)
	HighDebtRatio float64 `toml:"high_debt_ratio" json:"high_debt_ratio"`
	// GoodOperatingMargin 영업이익률 긍정 기준 (%)
	GoodOperatingMargin float64 `toml:"good_operating_margin" json:"good_operating_margin"`

	// FlowDays 수급 분석 기간 (거래일)
	FlowDays int `toml:"flow_days" json:"flow_days"`
	// MajorityDays 매수 우위로 보는 최소 순매수 일수
	MajorityDays int `toml:"majority_days" json:"majority_days"`

	StrongBuyMin int `toml:"strong_buy_min" json:"strong_buy_min"`
	BuyMin       int `toml:"buy_min" json:"buy_min"`
	NeutralMin   int `toml:"neutral_min" json:"neutral_min"`
	CautionMin   int `toml:"caution_min" json:"caution_min"`
}

// DefaultConfig 기본 설정
func DefaultConfig() Config {
	return Config{
		Weights:             Weights{Financial: 0.35, SupplyDemand: 0.30, Technical: 0.35},
		OneTimeGainGap:      30,
		HighDebtRatio:       200,
		GoodOperatingMargin: 10,
		FlowDays:            5,
		MajorityDays:        3,
		StrongBuyMin:        80,
		BuyMin:              65,
		NeutralMin:          45,
		CautionMin:          30,
	}
}
