package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wonny/quantdiag/internal/api/handlers"
	"github.com/wonny/quantdiag/internal/api/middleware"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/pkg/logger"
)

// Dependencies API 라우터 의존성
type Dependencies struct {
	Analyzer handlers.Analyzer
	Health   *handlers.HealthHandler
}

// Router holds all dependencies for API routing
type Router struct {
	engine          *gin.Engine
	config          *config.Config
	healthHandler   *handlers.HealthHandler
	stockHandler    *handlers.StockHandler
	marketHandler   *handlers.MarketHandler
	screenerHandler *handlers.ScreenerHandler
}

// NewRouter creates a new API router with all dependencies
func NewRouter(cfg *config.Config, deps Dependencies) *Router {
	gin.SetMode(cfg.Server.Mode)

	r := &Router{
		engine:          gin.New(),
		config:          cfg,
		healthHandler:   deps.Health,
		stockHandler:    handlers.NewStockHandler(deps.Analyzer),
		marketHandler:   handlers.NewMarketHandler(deps.Analyzer),
		screenerHandler: handlers.NewScreenerHandler(deps.Analyzer),
	}

	r.setupMiddlewares()
	r.setupRoutes()
	return r
}

// setupMiddlewares configures all global middlewares
func (r *Router) setupMiddlewares() {
	// Recovery는 가장 먼저
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	loggingCfg := middleware.LoggingConfig{
		SkipPaths: []string{"/health", "/health/ready"},
	}
	if r.config.Logging.FileEnabled {
		accessLogger := logger.NewAccessLogger(
			r.config.Logging.FilePath,
			r.config.Logging.RotationSize,
			r.config.Logging.RetentionDays,
		)
		loggingCfg.AccessLogger = &accessLogger
	}
	r.engine.Use(middleware.Logging(loggingCfg))

	if r.config.Server.Mode == gin.DebugMode {
		r.engine.Use(middleware.CORS(middleware.DevelopmentCORSConfig()))
	} else {
		r.engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	if r.healthHandler != nil {
		r.engine.GET("/health", r.healthHandler.Health)
		r.engine.GET("/health/ready", r.healthHandler.Ready)
		r.engine.GET("/api/health/detailed", r.healthHandler.Detailed)
	}

	v1 := r.engine.Group("/api/v1")
	{
		stocks := v1.Group("/stocks/:code")
		{
			stocks.GET("/indicators", r.stockHandler.Indicators)
			stocks.GET("/diagnosis", r.stockHandler.Diagnosis)
			stocks.GET("/squeeze", r.stockHandler.Squeeze)
		}

		v1.GET("/squeeze/candidates", r.stockHandler.SqueezeCandidates)

		mkt := v1.Group("/market")
		{
			mkt.GET("/timing", r.marketHandler.Timing)
			mkt.GET("/adr-history", r.marketHandler.ADRHistory)
		}

		screen := v1.Group("/screener")
		{
			screen.GET("/magic-formula", r.screenerHandler.MagicFormula)
			screen.GET("/peg", r.screenerHandler.PEG)
			screen.GET("/turnaround", r.screenerHandler.Turnaround)
			screen.GET("/summary", r.screenerHandler.Summary)
		}

		if r.healthHandler != nil {
			v1.GET("/cache/stats", r.healthHandler.CacheStats)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
