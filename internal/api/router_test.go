package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/api/handlers"
	"github.com/wonny/quantdiag/internal/api/middleware"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/infra/cache"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/quant/diagnosis"
	"github.com/wonny/quantdiag/internal/quant/regime"
	"github.com/wonny/quantdiag/internal/quant/screener"
	"github.com/wonny/quantdiag/internal/quant/squeeze"
	"github.com/wonny/quantdiag/internal/quant/technical"
)

type fakeAnalyzer struct {
	err error

	lastMinScore int
	lastLimit    int
	lastMagic    screener.MagicFormulaParams
	lastPEG      screener.PEGParams
}

func (f *fakeAnalyzer) Indicators(_ context.Context, code string) (*technical.Indicators, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &technical.Indicators{StockCode: code, Close: 70000}, nil
}

func (f *fakeAnalyzer) Diagnose(_ context.Context, code string) (*diagnosis.StockDiagnosis, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &diagnosis.StockDiagnosis{StockCode: code}, nil
}

func (f *fakeAnalyzer) Squeeze(_ context.Context, code string) (*squeeze.Assessment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &squeeze.Assessment{StockCode: code, SqueezeScore: 55}, nil
}

func (f *fakeAnalyzer) SqueezeCandidates(_ context.Context, minScore, limit int) ([]*squeeze.Assessment, error) {
	f.lastMinScore, f.lastLimit = minScore, limit
	return []*squeeze.Assessment{{StockCode: "005930", SqueezeScore: 70}}, nil
}

func (f *fakeAnalyzer) Timing(context.Context) (*regime.Timing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &regime.Timing{CombinedADR: market.Float(125), OverallCondition: regime.ConditionOverheated}, nil
}

func (f *fakeAnalyzer) ADRHistory(_ context.Context, days int) ([]regime.HistoryPoint, error) {
	return make([]regime.HistoryPoint, days), nil
}

func (f *fakeAnalyzer) MagicFormula(_ context.Context, p screener.MagicFormulaParams) (screener.Result[screener.MagicFormulaResult], error) {
	f.lastMagic = p
	return screener.Result[screener.MagicFormulaResult]{Items: []screener.MagicFormulaResult{{Rank: 1}}, Total: 7}, nil
}

func (f *fakeAnalyzer) PEG(_ context.Context, p screener.PEGParams) (screener.Result[screener.PEGResult], error) {
	f.lastPEG = p
	return screener.Result[screener.PEGResult]{}, nil
}

func (f *fakeAnalyzer) Turnaround(context.Context, screener.TurnaroundParams) (screener.Result[screener.TurnaroundResult], error) {
	return screener.Result[screener.TurnaroundResult]{}, nil
}

func (f *fakeAnalyzer) ScreenerSummary(context.Context) (screener.Summary, error) {
	return screener.Summary{}, f.err
}

func (f *fakeAnalyzer) ScreenerConfig() screener.Config {
	return screener.DefaultConfig()
}

func (f *fakeAnalyzer) SqueezeConfig() squeeze.Config {
	return squeeze.DefaultConfig()
}

type fakeDB struct{ status string }

func (d fakeDB) Health(context.Context) *postgres.HealthStatus {
	return &postgres.HealthStatus{Status: d.status}
}

func newTestRouter(t *testing.T, a *fakeAnalyzer, dbStatus string) *gin.Engine {
	t.Helper()
	store := cache.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	health := handlers.NewHealthHandler(fakeDB{status: dbStatus}, store, "test")
	return NewRouter(cfg, Dependencies{Analyzer: a, Health: health}).Engine()
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Code      string `json:"code"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestStockRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeAnalyzer{}, postgres.StatusHealthy)

	for _, path := range []string{
		"/api/v1/stocks/005930/indicators",
		"/api/v1/stocks/005930/diagnosis",
		"/api/v1/stocks/005930/squeeze",
	} {
		t.Run(path, func(t *testing.T) {
			rec, env := get(t, r, path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, string(env.Data), `"stock_code":"005930"`)
			assert.NotEmpty(t, env.Meta["request_id"])
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestStockRoutes_InvalidCode(t *testing.T) {
	r := newTestRouter(t, &fakeAnalyzer{}, postgres.StatusHealthy)
	rec, env := get(t, r, "/api/v1/stocks/59A/indicators")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("get bars: %w", market.ErrBarsNotFound), http.StatusNotFound},
		{fmt.Errorf("calc: %w", market.ErrUnorderedSeries), http.StatusUnprocessableEntity},
		{fmt.Errorf("naver: %w", market.ErrExternalAPIError), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			r := newTestRouter(t, &fakeAnalyzer{err: tt.err}, postgres.StatusHealthy)
			rec, env := get(t, r, "/api/v1/stocks/005930/indicators")
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, env.Error.RequestID)
		})
	}
}

func TestSqueezeCandidates_Params(t *testing.T) {
	a := &fakeAnalyzer{}
	r := newTestRouter(t, a, postgres.StatusHealthy)

	rec, env := get(t, r, "/api/v1/squeeze/candidates")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, squeeze.DefaultConfig().ScanMinScore, a.lastMinScore)
	assert.Equal(t, 20, a.lastLimit)
	assert.EqualValues(t, 1, env.Meta["count"])

	rec, _ = get(t, r, "/api/v1/squeeze/candidates?min_score=60&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 60, a.lastMinScore)
	assert.Equal(t, 5, a.lastLimit)

	rec, _ = get(t, r, "/api/v1/squeeze/candidates?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeAnalyzer{}, postgres.StatusHealthy)

	rec, env := get(t, r, "/api/v1/market/timing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"overall_condition":"OVERHEATED"`)

	rec, env = get(t, r, "/api/v1/market/adr-history?days=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, env.Meta["count"])

	rec, _ = get(t, r, "/api/v1/market/adr-history?days=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreenerRoutes(t *testing.T) {
	a := &fakeAnalyzer{}
	r := newTestRouter(t, a, postgres.StatusHealthy)

	rec, env := get(t, r, "/api/v1/screener/magic-formula?limit=3&min_market_cap=100000000000")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, a.lastMagic.Limit)
	assert.True(t, a.lastMagic.MinMarketCap.Equal(decimal.NewFromInt(100_000_000_000)))
	assert.EqualValues(t, 7, env.Meta["total"])

	rec, _ = get(t, r, "/api/v1/screener/peg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, screener.DefaultConfig().PEG, a.lastPEG)

	rec, _ = get(t, r, "/api/v1/screener/peg?max_peg=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, r, "/api/v1/screener/magic-formula?min_market_cap=-5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, r, "/api/v1/screener/turnaround")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = get(t, r, "/api/v1/screener/summary")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeAnalyzer{}, postgres.StatusHealthy)

	rec, _ := get(t, r, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = get(t, r, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := get(t, r, "/api/health/detailed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"cache"`)

	rec, env = get(t, r, "/api/v1/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"backend":"memory"`)

	down := newTestRouter(t, &fakeAnalyzer{}, postgres.StatusUnhealthy)
	rec, _ = get(t, down, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler_Checks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := handlers.NewHealthHandler(fakeDB{status: postgres.StatusHealthy}, nil, "test")
	h.AddCheck("redis", func(context.Context) error { return errors.New("connection refused") })

	engine := gin.New()
	engine.GET("/health/ready", h.Ready)
	engine.GET("/detailed", h.Detailed)

	rec, _ := get(t, engine, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec, env := get(t, engine, "/detailed")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"degraded"`)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, &fakeAnalyzer{}, postgres.StatusHealthy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/market/timing", nil)
	req.Header.Set("Origin", "https://example.com")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID_Propagated(t *testing.T) {
	r := newTestRouter(t, &fakeAnalyzer{}, postgres.StatusHealthy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/market/timing", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
}
