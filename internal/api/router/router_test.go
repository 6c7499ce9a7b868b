package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/service/collector"
)

type fakeCollector struct {
	allDone  chan struct{}
	block    chan struct{}
	stockErr error
}

func (f *fakeCollector) CollectAll(ctx context.Context) error {
	if f.block != nil {
		<-f.block
	}
	close(f.allDone)
	return nil
}

func (f *fakeCollector) CollectBreadth(_ context.Context, tradeDate time.Time) (*collector.BreadthResult, error) {
	return &collector.BreadthResult{Date: tradeDate}, nil
}

func (f *fakeCollector) CollectStock(_ context.Context, code string) (*collector.StockResult, error) {
	if f.stockErr != nil {
		return nil, f.stockErr
	}
	return &collector.StockResult{StockCode: code, Bars: 130}, nil
}

func (f *fakeCollector) Status() collector.Status {
	return collector.Status{Running: true, Stocks: 3}
}

func (f *fakeCollector) Today() time.Time {
	return time.Date(2024, 6, 3, 0, 0, 0, 0, collector.KST)
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealthAndStatus(t *testing.T) {
	h := NewRouter(context.Background(), &Config{Collector: &fakeCollector{}})

	w := serve(h, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(h, http.MethodGet, "/api/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status        collector.Status `json:"status"`
		ManualRunning bool             `json:"manual_running"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Status.Running)
	assert.Equal(t, 3, body.Status.Stocks)
	assert.False(t, body.ManualRunning)
}

func TestCollectAll_RejectsConcurrentRun(t *testing.T) {
	fc := &fakeCollector{allDone: make(chan struct{}), block: make(chan struct{})}
	h := NewRouter(context.Background(), &Config{Collector: fc})

	w := serve(h, http.MethodPost, "/api/collect")
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = serve(h, http.MethodPost, "/api/collect")
	assert.Equal(t, http.StatusConflict, w.Code)

	close(fc.block)
	select {
	case <-fc.allDone:
	case <-time.After(time.Second):
		t.Fatal("collection did not finish")
	}
}

func TestCollectBreadth(t *testing.T) {
	h := NewRouter(context.Background(), &Config{Collector: &fakeCollector{}})

	w := serve(h, http.MethodPost, "/api/collect/breadth")
	require.Equal(t, http.StatusOK, w.Code)

	var res collector.BreadthResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2024, res.Date.Year())
	assert.Equal(t, time.June, res.Date.Month())
}

func TestCollectStock(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"invalid code", fmt.Errorf("collect: %w", market.ErrInvalidStockCode), http.StatusBadRequest},
		{"naver down", fmt.Errorf("fetch bars: %w", market.ErrExternalAPIError), http.StatusBadGateway},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(context.Background(), &Config{Collector: &fakeCollector{stockErr: tt.err}})
			w := serve(h, http.MethodPost, "/api/collect/stocks/005930")
			assert.Equal(t, tt.status, w.Code)
			if tt.err == nil {
				var res collector.StockResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
				assert.Equal(t, "005930", res.StockCode)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	h := NewRouter(context.Background(), &Config{
		Collector:      &fakeCollector{},
		AllowedOrigins: []string{"http://ops.local"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/collect", nil)
	req.Header.Set("Origin", "http://ops.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "http://ops.local", w.Header().Get("Access-Control-Allow-Origin"))
}
