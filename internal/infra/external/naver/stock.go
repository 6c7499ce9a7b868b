package naver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"slices"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/domain/market"
)

// pageRow 한 페이지 행 파싱 결과
type pageRow[T any] struct {
	date time.Time
	item T
}

// collectPages page=1부터 table.type2 행을 최신순으로 모은 뒤 날짜 오름차순으로 반환
// 마지막 페이지를 넘으면 네이버는 같은 페이지를 반복하므로 더 오래된 행이 없으면 중단한다.
func collectPages[T any](ctx context.Context, c *Client, path string, days int, parse func(tds *goquery.Selection) (pageRow[T], bool)) ([]T, error) {
	var rows []pageRow[T]
	for page := 1; page <= maxPages && len(rows) < days; page++ {
		doc, err := c.getDocument(ctx, fmt.Sprintf("%s&page=%d", path, page))
		if err != nil {
			if page > 1 && ctx.Err() == nil {
				log.Warn().Err(err).Int("page", page).Msg("Stopping pagination early")
				break
			}
			return nil, err
		}

		added := 0
		doc.Find("table.type2 tr").Each(func(_ int, tr *goquery.Selection) {
			if len(rows) >= days || tr.Find("th").Length() > 0 {
				return
			}
			row, ok := parse(tr.Find("td"))
			if !ok {
				return
			}
			if n := len(rows); n > 0 && !row.date.Before(rows[n-1].date) {
				return
			}
			rows = append(rows, row)
			added++
		})
		if added == 0 {
			break
		}
	}

	items := make([]T, len(rows))
	for i, r := range rows {
		items[len(rows)-1-i] = r.item
	}
	return items, nil
}

// =============================================================================
// Daily Bars
// =============================================================================

// FetchDailyBars 일봉 수집 (sise_day, 날짜 오름차순)
// 날짜 | 종가 | 전일비 | 시가 | 고가 | 저가 | 거래량
func (c *Client) FetchDailyBars(ctx context.Context, stockCode string, days int) ([]market.DailyBar, error) {
	path := "/item/sise_day.naver?code=" + stockCode
	bars, err := collectPages(ctx, c, path, days, func(tds *goquery.Selection) (pageRow[market.DailyBar], bool) {
		if tds.Length() < 7 {
			return pageRow[market.DailyBar]{}, false
		}
		date, ok := parseDate(tds.Eq(0).Text())
		if !ok {
			return pageRow[market.DailyBar]{}, false
		}
		closePrice := parseNumber(tds.Eq(1).Text())
		if closePrice == 0 {
			return pageRow[market.DailyBar]{}, false
		}
		return pageRow[market.DailyBar]{date: date, item: market.DailyBar{
			StockCode: stockCode,
			Date:      date,
			Open:      float64(parseNumber(tds.Eq(3).Text())),
			High:      float64(parseNumber(tds.Eq(4).Text())),
			Low:       float64(parseNumber(tds.Eq(5).Text())),
			Close:     float64(closePrice),
			Volume:    parseNumber(tds.Eq(6).Text()),
		}}, true
	})
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", stockCode, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch bars %s: no rows: %w", stockCode, market.ErrInvalidResponse)
	}

	log.Debug().
		Str("stock_code", stockCode).
		Int("count", len(bars)).
		Msg("Fetched daily bars from Naver")

	return bars, nil
}

// =============================================================================
// Investor Flow
// =============================================================================

// FetchInvestorFlow 외국인/기관 순매매 수집 (frgn, 날짜 오름차순)
// 날짜 | 종가 | 전일비 | 등락률 | 거래량 | 기관 순매매량 | 외국인 순매매량 | 보유주수 | 보유율
// 금액은 순매매량 × 종가로 환산한다.
func (c *Client) FetchInvestorFlow(ctx context.Context, stockCode string, days int) ([]market.InvestorFlow, error) {
	path := "/item/frgn.naver?code=" + stockCode
	flows, err := collectPages(ctx, c, path, days, func(tds *goquery.Selection) (pageRow[market.InvestorFlow], bool) {
		if tds.Length() < 9 {
			return pageRow[market.InvestorFlow]{}, false
		}
		date, ok := parseDate(tds.Eq(0).Text())
		if !ok {
			return pageRow[market.InvestorFlow]{}, false
		}
		closePrice := parseNumber(tds.Eq(1).Text())
		instQty := parseSignedNumber(tds.Eq(5).Text())
		foreignQty := parseSignedNumber(tds.Eq(6).Text())
		return pageRow[market.InvestorFlow]{date: date, item: market.InvestorFlow{
			StockCode:       stockCode,
			TradeDate:       date,
			ForeignNetQty:   foreignQty,
			ForeignNetValue: foreignQty * closePrice,
			InstNetQty:      instQty,
			InstNetValue:    instQty * closePrice,
		}}, true
	})
	if err != nil {
		return nil, fmt.Errorf("fetch flows %s: %w", stockCode, err)
	}

	log.Debug().
		Str("stock_code", stockCode).
		Int("count", len(flows)).
		Msg("Fetched investor flow from Naver")

	return flows, nil
}

// =============================================================================
// Short Interest
// =============================================================================

// FetchShortInterest 공매도 매매비중(short_trade)과 대차잔고(lending)를 날짜별로 병합
// 대차잔고 페이지가 없으면 (404) 공매도 데이터만 반환한다.
func (c *Client) FetchShortInterest(ctx context.Context, stockCode string, days int) ([]market.ShortInterestRecord, error) {
	// 날짜 | 공매도량 | 거래량 | 공매도비율 | 공매도거래대금 | 종가
	shorts, err := collectPages(ctx, c, "/item/short_trade.naver?code="+stockCode, days,
		func(tds *goquery.Selection) (pageRow[market.ShortInterestRecord], bool) {
			if tds.Length() < 6 {
				return pageRow[market.ShortInterestRecord]{}, false
			}
			date, ok := parseDate(tds.Eq(0).Text())
			if !ok {
				return pageRow[market.ShortInterestRecord]{}, false
			}
			ratio, _ := parseFloat(tds.Eq(3).Text())
			return pageRow[market.ShortInterestRecord]{date: date, item: market.ShortInterestRecord{
				StockCode:   stockCode,
				TradeDate:   date,
				ShortVolume: parseNumber(tds.Eq(1).Text()),
				ShortRatio:  ratio,
				ClosePrice:  float64(parseNumber(tds.Eq(5).Text())),
			}}, true
		})
	if err != nil {
		return nil, fmt.Errorf("fetch short trade %s: %w", stockCode, err)
	}

	byDate := make(map[time.Time]*market.ShortInterestRecord, len(shorts))
	for i := range shorts {
		byDate[shorts[i].TradeDate] = &shorts[i]
	}

	loans, err := c.fetchLending(ctx, stockCode, days)
	if err != nil {
		log.Warn().Err(err).Str("stock_code", stockCode).Msg("Loan balance unavailable")
	}
	var loanOnly []market.ShortInterestRecord
	for _, loan := range loans {
		if rec, ok := byDate[loan.TradeDate]; ok {
			rec.LoanBalanceQuantity = loan.LoanBalanceQuantity
			rec.LoanBalanceRatio = loan.LoanBalanceRatio
			continue
		}
		loanOnly = append(loanOnly, loan)
	}
	records := append(shorts, loanOnly...)

	slices.SortFunc(records, func(a, b market.ShortInterestRecord) int {
		return a.TradeDate.Compare(b.TradeDate)
	})
	fillChangeRates(records)
	if len(records) > days {
		records = records[len(records)-days:]
	}

	log.Debug().
		Str("stock_code", stockCode).
		Int("count", len(records)).
		Int("loan_rows", len(loans)).
		Msg("Fetched short interest from Naver")

	return records, nil
}

// fetchLending 대차잔고 (날짜 | 신규 | 상환 | 잔고 | 잔고금액 | 공시율)
func (c *Client) fetchLending(ctx context.Context, stockCode string, days int) ([]market.ShortInterestRecord, error) {
	if c.lendingGone.Load() {
		return nil, nil
	}

	loans, err := collectPages(ctx, c, "/item/lending.naver?code="+stockCode, days,
		func(tds *goquery.Selection) (pageRow[market.ShortInterestRecord], bool) {
			if tds.Length() < 6 {
				return pageRow[market.ShortInterestRecord]{}, false
			}
			date, ok := parseDate(tds.Eq(0).Text())
			if !ok {
				return pageRow[market.ShortInterestRecord]{}, false
			}
			ratio, _ := parseFloat(tds.Eq(5).Text())
			return pageRow[market.ShortInterestRecord]{date: date, item: market.ShortInterestRecord{
				StockCode:           stockCode,
				TradeDate:           date,
				LoanBalanceQuantity: parseNumber(tds.Eq(3).Text()),
				LoanBalanceRatio:    ratio,
			}}, true
		})
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			if c.lendingGone.CompareAndSwap(false, true) {
				log.Warn().Msg("Naver lending page returned 404, skipping loan balance from now on")
			}
			return nil, nil
		}
		return nil, err
	}
	return loans, nil
}

// fillChangeRates 직전 종가 대비 등락률 (%)
func fillChangeRates(records []market.ShortInterestRecord) {
	for i := 1; i < len(records); i++ {
		prev := records[i-1].ClosePrice
		if prev > 0 && records[i].ClosePrice > 0 {
			rate := (records[i].ClosePrice - prev) / prev * 100
			records[i].ChangeRate = math.Round(rate*100) / 100
		}
	}
}
