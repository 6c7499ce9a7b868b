package technical

import "time"

// Indicators 종목 기술적 지표 (마지막 일봉 기준)
// 데이터가 부족한 지표는 nil로 남는다.
type Indicators struct {
	StockCode             string    `json:"stock_code"`
	AsOf                  time.Time `json:"as_of"`
	Close                 float64   `json:"close"`
	DataCount             int       `json:"data_count"`
	HasEnoughDataFor120MA bool      `json:"has_enough_data_for_120ma"`

	// Moving averages
	MA5   *float64 `json:"ma5"`
	MA20  *float64 `json:"ma20"`
	MA60  *float64 `json:"ma60"`
	MA120 *float64 `json:"ma120"`

	Disparity5  *float64 `json:"disparity5"`
	Disparity20 *float64 `json:"disparity20"`
	Disparity60 *float64 `json:"disparity60"`

	IsAboveMA5   bool `json:"is_above_ma5"`
	IsAboveMA20  bool `json:"is_above_ma20"`
	IsAboveMA60  bool `json:"is_above_ma60"`
	IsAboveMA120 bool `json:"is_above_ma120"`

	// Oscillators
	RSI14     *float64         `json:"rsi14"`
	RSIStatus OscillatorStatus `json:"rsi_status,omitempty"`
	MFI       *float64         `json:"mfi"`
	MFIStatus OscillatorStatus `json:"mfi_status,omitempty"`

	MACD          *float64 `json:"macd"`
	MACDSignal    *float64 `json:"macd_signal"`
	MACDHistogram *float64 `json:"macd_histogram"`

	// Bollinger bands
	BollingerUpper     *float64 `json:"bollinger_upper"`
	BollingerMiddle    *float64 `json:"bollinger_middle"`
	BollingerLower     *float64 `json:"bollinger_lower"`
	BollingerBandWidth *float64 `json:"bollinger_bandwidth"`
	IsSqueeze          bool     `json:"is_squeeze"`
	IsBreakout         bool     `json:"is_breakout"`

	// Cross / arrangement
	IsGoldenCross  bool `json:"is_golden_cross"`
	IsDeadCross    bool `json:"is_dead_cross"`
	IsArrangedUp   bool `json:"is_arranged_up"`
	IsArrangedDown bool `json:"is_arranged_down"`

	OverallSignal     TechnicalSignal `json:"overall_signal"`
	BuySignalStrength int             `json:"buy_signal_strength"`
	SignalDescription string          `json:"signal_description"`
}

// IsRSIOversold RSI 침체 구간 여부
func (ind *Indicators) IsRSIOversold() bool { return ind.RSIStatus == StatusOversold }

// IsRSIOverbought RSI 과열 구간 여부
func (ind *Indicators) IsRSIOverbought() bool { return ind.RSIStatus == StatusOverbought }
