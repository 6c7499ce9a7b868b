// Package router serves the collector's operational endpoints on chi.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/domain/market"
	"github.com/wonny/quantdiag/internal/service/collector"
)

// Collector 수집 서비스 (collector.Service)
type Collector interface {
	CollectAll(ctx context.Context) error
	CollectBreadth(ctx context.Context, tradeDate time.Time) (*collector.BreadthResult, error)
	CollectStock(ctx context.Context, stockCode string) (*collector.StockResult, error)
	Status() collector.Status
	Today() time.Time
}

// Config holds router configuration
type Config struct {
	Collector      Collector
	AllowedOrigins []string
	// RunTimeout 수동 전체 수집 제한 시간
	RunTimeout time.Duration
}

type handler struct {
	collector  Collector
	runTimeout time.Duration
	running    atomic.Bool
	// base 수동 전체 수집용 컨텍스트 (요청 종료와 무관)
	base context.Context
}

// NewRouter creates the collector HTTP router
func NewRouter(ctx context.Context, cfg *Config) http.Handler {
	h := &handler{collector: cfg.Collector, runTimeout: cfg.RunTimeout, base: ctx}
	if h.runTimeout <= 0 {
		h.runTimeout = 30 * time.Minute
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/status", h.status)
		r.Post("/collect", h.collectAll)
		r.Post("/collect/breadth", h.collectBreadth)
		r.Post("/collect/stocks/{code}", h.collectStock)
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handler) status(w http.ResponseWriter, _ *http.Request) {
	st := h.collector.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         st,
		"manual_running": h.running.Load(),
	})
}

// collectAll 전체 수집을 백그라운드로 시작 (202), 진행 중이면 409
func (h *handler) collectAll(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		writeError(w, r, http.StatusConflict, "collection already running")
		return
	}

	reqID := middleware.GetReqID(r.Context())
	go func() {
		defer h.running.Store(false)
		ctx, cancel := context.WithTimeout(h.base, h.runTimeout)
		defer cancel()
		if err := h.collector.CollectAll(ctx); err != nil {
			log.Error().Err(err).Str("request_id", reqID).Msg("Manual collection failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":    "collection started",
		"request_id": reqID,
	})
}

func (h *handler) collectBreadth(w http.ResponseWriter, r *http.Request) {
	res, err := h.collector.CollectBreadth(r.Context(), h.collector.Today())
	if err != nil {
		writeError(w, r, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) collectStock(w http.ResponseWriter, r *http.Request) {
	res, err := h.collector.CollectStock(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func statusFor(err error) int {
	switch {
	case market.IsInvalidInput(err):
		return http.StatusBadRequest
	case market.IsExternalError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	log.Warn().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Int("status", status).
		Str("message", message).
		Msg("Collector API error")
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"message":    message,
			"request_id": middleware.GetReqID(r.Context()),
		},
	})
}
