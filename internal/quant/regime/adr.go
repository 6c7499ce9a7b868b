// Package regime classifies market temperature from advance/decline breadth.
package regime

import (
	"fmt"
	"time"

	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/quant/series"
)

// Config ADR 계산 기간 및 구간 임계값
type Config struct {
	Window        int     `toml:"window" json:"window"`
	Overheated    float64 `toml:"overheated" json:"overheated"`         // adr >= 과열
	OversoldUpper float64 `toml:"oversold_upper" json:"oversold_upper"` // adr <= 침체 상단
	ExtremeFear   float64 `toml:"extreme_fear" json:"extreme_fear"`     // adr <= 공포
	// MaxADR 하락 종목 합이 0일 때 사용하는 상한값
	MaxADR float64 `toml:"max_adr" json:"max_adr"`
}

// DefaultConfig 기본 설정 (20일, 120/80/60)
func DefaultConfig() Config {
	return Config{
		Window:        20,
		Overheated:    120,
		OversoldUpper: 80,
		ExtremeFear:   60,
		MaxADR:        999.99,
	}
}

// ADRResult ADR 계산 결과
// 기록이 Window보다 적으면 ADR20은 nil.
type ADRResult struct {
	Market       market.Market   `json:"market,omitempty"`
	Date         time.Time       `json:"date"`
	Days         int             `json:"days"`
	AdvancingSum int             `json:"advancing_sum"`
	DecliningSum int             `json:"declining_sum"`
	ADR20        *float64        `json:"adr20"`
	Unbounded    bool            `json:"unbounded"`
	Condition    MarketCondition `json:"condition,omitempty"`
}

// Classifier ADR 시장 상태 분류기
type Classifier struct {
	cfg Config
}

// NewClassifier 분류기 생성
func NewClassifier(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Config 현재 설정
func (c *Classifier) Config() Config {
	return c.cfg
}

// Classify ADR 값으로 시장 상태 결정
// >=120 과열, >80 보통, >60 침체, 그 외 극심한 공포
func (c *Classifier) Classify(adr float64) MarketCondition {
	switch {
	case adr >= c.cfg.Overheated:
		return ConditionOverheated
	case adr <= c.cfg.ExtremeFear:
		return ConditionExtremeFear
	case adr <= c.cfg.OversoldUpper:
		return ConditionOversold
	default:
		return ConditionNormal
	}
}

// ADR 단일 시장 ADR (최근 Window일)
func (c *Classifier) ADR(records []market.MarketBreadth) (*ADRResult, error) {
	if err := market.ValidateBreadth(records); err != nil {
		return nil, fmt.Errorf("adr: %w", err)
	}

	window := series.Last(records, c.cfg.Window)
	var adv, dec int
	for _, r := range window {
		adv += r.Advancing
		dec += r.Declining
	}

	last := records[len(records)-1]
	res := c.fromCounts(adv, dec, len(window))
	res.Market = last.Market
	res.Date = last.Date
	return res, nil
}

// CombinedADR 코스피+코스닥 합산 ADR
// 두 시장의 공통 거래일 중 최근 Window일의 상승/하락 종목 수를 합산해 다시 계산한다.
// 한 시장의 기록이 없으면 다른 시장의 ADR을 그대로 사용한다.
func (c *Classifier) CombinedADR(kospi, kosdaq []market.MarketBreadth) (*ADRResult, error) {
	switch {
	case len(kospi) == 0 && len(kosdaq) == 0:
		return nil, fmt.Errorf("combined adr: %w", market.ErrEmptySeries)
	case len(kosdaq) == 0:
		return c.ADR(kospi)
	case len(kospi) == 0:
		return c.ADR(kosdaq)
	}
	if err := market.ValidateBreadth(kospi); err != nil {
		return nil, fmt.Errorf("combined adr kospi: %w", err)
	}
	if err := market.ValidateBreadth(kosdaq); err != nil {
		return nil, fmt.Errorf("combined adr kosdaq: %w", err)
	}

	pairs := alignByDate(kospi, kosdaq)
	if len(pairs) < c.cfg.Window {
		return c.combinedFallback(kospi, kosdaq)
	}

	window := series.Last(pairs, c.cfg.Window)
	var adv, dec int
	for _, p := range window {
		adv += p.a.Advancing + p.b.Advancing
		dec += p.a.Declining + p.b.Declining
	}

	res := c.fromCounts(adv, dec, len(window))
	res.Date = window[len(window)-1].a.Date
	return res, nil
}

// combinedFallback 공통 거래일이 Window일 미만일 때
// 각 시장의 최근 Window일 합계를 더하고, 한 시장만 ADR이 있으면 그 값을 사용한다.
func (c *Classifier) combinedFallback(kospi, kosdaq []market.MarketBreadth) (*ADRResult, error) {
	kp, err := c.ADR(kospi)
	if err != nil {
		return nil, fmt.Errorf("combined adr kospi: %w", err)
	}
	kq, err := c.ADR(kosdaq)
	if err != nil {
		return nil, fmt.Errorf("combined adr kosdaq: %w", err)
	}

	switch {
	case kp.ADR20 != nil && kq.ADR20 != nil:
		res := c.fromCounts(kp.AdvancingSum+kq.AdvancingSum, kp.DecliningSum+kq.DecliningSum, c.cfg.Window)
		res.Date = latestDate(kospi, kosdaq)
		return res, nil
	case kp.ADR20 != nil:
		return kp, nil
	case kq.ADR20 != nil:
		return kq, nil
	}
	return &ADRResult{Date: latestDate(kospi, kosdaq)}, nil
}

func (c *Classifier) fromCounts(adv, dec, days int) *ADRResult {
	res := &ADRResult{
		Days:         days,
		AdvancingSum: adv,
		DecliningSum: dec,
	}
	if days < c.cfg.Window {
		return res
	}

	adr := c.cfg.MaxADR
	if dec == 0 {
		res.Unbounded = true
	} else {
		adr = float64(adv) / float64(dec) * 100
	}
	res.ADR20 = &adr
	res.Condition = c.Classify(adr)
	if res.Unbounded {
		res.Condition = ConditionOverheated
	}
	return res
}

// DailyRatio 당일 등락비 (진단용, 분류에는 사용하지 않음)
func DailyRatio(b market.MarketBreadth) *float64 {
	if b.Declining == 0 {
		return nil
	}
	v := float64(b.Advancing) / float64(b.Declining) * 100
	return &v
}

type breadthPair struct {
	a, b market.MarketBreadth
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func alignByDate(a, b []market.MarketBreadth) []breadthPair {
	byDate := make(map[string]market.MarketBreadth, len(b))
	for _, r := range b {
		byDate[dateKey(r.Date)] = r
	}
	pairs := make([]breadthPair, 0, len(a))
	for _, r := range a {
		if other, ok := byDate[dateKey(r.Date)]; ok {
			pairs = append(pairs, breadthPair{a: r, b: other})
		}
	}
	return pairs
}

func latestDate(a, b []market.MarketBreadth) time.Time {
	da := a[len(a)-1].Date
	db := b[len(b)-1].Date
	if db.After(da) {
		return db
	}
	return da
}
