package market

import (
	"fmt"
	"time"
)

// ValidateBars 일봉 시퀀스 검증 (비어있지 않고, 단일 종목, 날짜 오름차순)
func ValidateBars(bars []DailyBar) error {
	if len(bars) == 0 {
		return ErrEmptySeries
	}
	code := bars[0].StockCode
	for i := 1; i < len(bars); i++ {
		if bars[i].StockCode != code {
			return fmt.Errorf("bar %d (%s != %s): %w", i, bars[i].StockCode, code, ErrMixedSeries)
		}
		if err := checkOrder(i, bars[i-1].Date, bars[i].Date); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBreadth 등락 종목 수 시퀀스 검증
func ValidateBreadth(records []MarketBreadth) error {
	if len(records) == 0 {
		return ErrEmptySeries
	}
	m := records[0].Market
	for i := 1; i < len(records); i++ {
		if records[i].Market != m {
			return fmt.Errorf("breadth %d (%s != %s): %w", i, records[i].Market, m, ErrMixedSeries)
		}
		if err := checkOrder(i, records[i-1].Date, records[i].Date); err != nil {
			return err
		}
	}
	return nil
}

// ValidateShortInterest 공매도 시퀀스 검증
func ValidateShortInterest(records []ShortInterestRecord) error {
	if len(records) == 0 {
		return ErrEmptySeries
	}
	code := records[0].StockCode
	for i := 1; i < len(records); i++ {
		if records[i].StockCode != code {
			return fmt.Errorf("short record %d (%s != %s): %w", i, records[i].StockCode, code, ErrMixedSeries)
		}
		if err := checkOrder(i, records[i-1].TradeDate, records[i].TradeDate); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFlows 수급 시퀀스 검증
func ValidateFlows(flows []InvestorFlow) error {
	if len(flows) == 0 {
		return ErrEmptySeries
	}
	for i := 1; i < len(flows); i++ {
		if err := checkOrder(i, flows[i-1].TradeDate, flows[i].TradeDate); err != nil {
			return err
		}
	}
	return nil
}

// Duplicate dates count as unordered: one record per key per day.
func checkOrder(i int, prev, cur time.Time) error {
	if !cur.After(prev) {
		return fmt.Errorf("index %d (%s after %s): %w",
			i, cur.Format("2006-01-02"), prev.Format("2006-01-02"), ErrUnorderedSeries)
	}
	return nil
}
