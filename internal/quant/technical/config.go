package technical

// Config 기술적 지표 파라미터 및 신호 가중치
// 모든 임계값은 여기서만 정의한다.
type Config struct {
	RSIPeriod     int     `toml:"rsi_period" json:"rsi_period"`
	RSIOverbought float64 `toml:"rsi_overbought" json:"rsi_overbought"`
	RSIOversold   float64 `toml:"rsi_oversold" json:"rsi_oversold"`

	MFIPeriod     int     `toml:"mfi_period" json:"mfi_period"`
	MFIOverbought float64 `toml:"mfi_overbought" json:"mfi_overbought"`
	MFIOversold   float64 `toml:"mfi_oversold" json:"mfi_oversold"`

	MACDFast   int `toml:"macd_fast" json:"macd_fast"`
	MACDSlow   int `toml:"macd_slow" json:"macd_slow"`
	MACDSignal int `toml:"macd_signal" json:"macd_signal"`

	BollingerPeriod int     `toml:"bollinger_period" json:"bollinger_period"`
	BollingerK      float64 `toml:"bollinger_k" json:"bollinger_k"`
	// SqueezeRatio: bandwidth <= ratio * 평균 bandwidth(SqueezeLookback일) 이면 수축
	SqueezeRatio    float64 `toml:"squeeze_ratio" json:"squeeze_ratio"`
	SqueezeLookback int     `toml:"squeeze_lookback" json:"squeeze_lookback"`

	Signal SignalWeights `toml:"signal" json:"signal"`
}

// SignalWeights 매수 신호 강도 가중치 및 등급 구간
type SignalWeights struct {
	Base        float64 `toml:"base" json:"base"`
	Cross       float64 `toml:"cross" json:"cross"`
	Arrangement float64 `toml:"arrangement" json:"arrangement"`
	RSI         float64 `toml:"rsi" json:"rsi"`
	MFI         float64 `toml:"mfi" json:"mfi"`
	Breakout    float64 `toml:"breakout" json:"breakout"`

	StrongBuyMin float64 `toml:"strong_buy_min" json:"strong_buy_min"`
	BuyMin       float64 `toml:"buy_min" json:"buy_min"`
	NeutralMin   float64 `toml:"neutral_min" json:"neutral_min"`
	SellMin      float64 `toml:"sell_min" json:"sell_min"`
}

// DefaultConfig 기본 설정
func DefaultConfig() Config {
	return Config{
		RSIPeriod:       14,
		RSIOverbought:   70,
		RSIOversold:     30,
		MFIPeriod:       14,
		MFIOverbought:   80,
		MFIOversold:     20,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerK:      2,
		SqueezeRatio:    0.7,
		SqueezeLookback: 20,
		Signal: SignalWeights{
			Base:         50,
			Cross:        15,
			Arrangement:  10,
			RSI:          10,
			MFI:          10,
			Breakout:     10,
			StrongBuyMin: 80,
			BuyMin:       60,
			NeutralMin:   40,
			SellMin:      20,
		},
	}
}
