package squeeze

// Config 숏스퀴즈 점수 파라미터
type Config struct {
	AvgWindow    int `toml:"avg_window" json:"avg_window"`       // 평균 대차잔고 기간
	ChangeWindow int `toml:"change_window" json:"change_window"` // 대차잔고/주가 변화율 기간
	ForeignDays  int `toml:"foreign_days" json:"foreign_days"`   // 외국인 순매수 합산 기간

	// 대차잔고 감소: LoanFullDecline% 이상 감소 시 LoanMaxPoints
	LoanMaxPoints   float64 `toml:"loan_max_points" json:"loan_max_points"`
	LoanFullDecline float64 `toml:"loan_full_decline" json:"loan_full_decline"`

	// 외국인 순매수: 매수 시 ForeignBasePoints, ForeignNetBuyFull(원) 이상이면 ForeignMaxPoints
	ForeignBasePoints float64 `toml:"foreign_base_points" json:"foreign_base_points"`
	ForeignMaxPoints  float64 `toml:"foreign_max_points" json:"foreign_max_points"`
	ForeignNetBuyFull float64 `toml:"foreign_net_buy_full" json:"foreign_net_buy_full"`

	// 추세 전환
	ReversalPoints     float64 `toml:"reversal_points" json:"reversal_points"`
	RisingPoints       float64 `toml:"rising_points" json:"rising_points"`
	PriceRiseThreshold float64 `toml:"price_rise_threshold" json:"price_rise_threshold"` // %

	// 공매도 비중 감소: ShortRatioFullDecline% (상대) 이상 감소 시 ShortRatioMaxPoints
	ShortRatioMaxPoints   float64 `toml:"short_ratio_max_points" json:"short_ratio_max_points"`
	ShortRatioFullDecline float64 `toml:"short_ratio_full_decline" json:"short_ratio_full_decline"`

	CriticalMin int `toml:"critical_min" json:"critical_min"`
	HighMin     int `toml:"high_min" json:"high_min"`
	MediumMin   int `toml:"medium_min" json:"medium_min"`

	// ScanMinScore 후보 스캔 최소 점수
	ScanMinScore int `toml:"scan_min_score" json:"scan_min_score"`
}

// DefaultConfig 기본 설정
func DefaultConfig() Config {
	return Config{
		AvgWindow:             20,
		ChangeWindow:          5,
		ForeignDays:           3,
		LoanMaxPoints:         40,
		LoanFullDecline:       20,
		ForeignBasePoints:     10,
		ForeignMaxPoints:      30,
		ForeignNetBuyFull:     1_000_000_000, // 10억
		ReversalPoints:        10,
		RisingPoints:          10,
		PriceRiseThreshold:    3.0,
		ShortRatioMaxPoints:   10,
		ShortRatioFullDecline: 50,
		CriticalMin:           80,
		HighMin:               60,
		MediumMin:             40,
		ScanMinScore:          40,
	}
}
