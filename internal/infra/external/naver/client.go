package naver

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/pkg/config"
)

const (
	defaultBaseURL = "https://finance.naver.com"
	defaultTimeout = 10 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	dateLayout = "2006.01.02"
	maxPages   = 30
)

// Client 네이버 금융 크롤러
// 연속 요청 사이에 RequestDelay만큼 대기한다 (차단 방지)
type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration

	mu   sync.Mutex
	last time.Time

	// lending.naver가 404를 반환하면 이후 대차잔고 조회를 건너뛴다
	lendingGone atomic.Bool
}

// NewClient 클라이언트 생성
func NewClient(cfg config.NaverConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		delay:      cfg.RequestDelay,
	}
}

// HealthCheck API 상태 확인
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.getDocument(ctx, "/sise/sise_index.naver?code=KOSPI")
	return err
}

// getDocument GET 요청 후 HTML 파싱
func (c *Client) getDocument(ctx context.Context, path string) (*goquery.Document, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8")
	req.Header.Set("Referer", c.baseURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %v: %w", path, err, market.ErrExternalAPIError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %v: %w", path, err, market.ErrInvalidResponse)
	}
	return doc, nil
}

// throttle 마지막 요청 이후 delay가 지나도록 대기
func (c *Client) throttle(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}

	c.mu.Lock()
	wait := time.Until(c.last.Add(c.delay))
	if wait < 0 {
		wait = 0
	}
	c.last = time.Now().Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// StatusError 200 이외의 응답
type StatusError struct {
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.StatusCode)
}

// Unwrap lets errors.Is match market.ErrExternalAPIError.
func (e *StatusError) Unwrap() error {
	return market.ErrExternalAPIError
}

// =============================================================================
// Helper Functions
// =============================================================================

var (
	digitsRe     = regexp.MustCompile(`\d+`)
	floatCleaner = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "%", "", "배", "", "+", "", "−", "-")
)

// parseNumber 숫자 문자열 파싱 (콤마 제거)
func parseNumber(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	match := digitsRe.FindString(s)
	if match == "" {
		return 0
	}
	n, _ := strconv.ParseInt(match, 10, 64)
	return n
}

// parseSignedNumber 부호 있는 숫자 파싱 ("-1,234", "−1,234", "+567")
func parseSignedNumber(s string) int64 {
	s = strings.TrimSpace(s)
	n := parseNumber(s)
	if strings.ContainsAny(s, "-−") {
		return -n
	}
	return n
}

// parseFloat 실수 파싱 ("+1.23%", "12.5배", "2,612.34")
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = floatCleaner.Replace(s)
	if s == "" || s == "-" || s == "N/A" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseDate "2024.03.04" 형식
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, ".") {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
