package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/pkg/config"
	applogger "github.com/wonny/quantdiag/internal/pkg/logger"
)

// Pool wraps pgxpool.Pool
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new PostgreSQL connection pool
// SSOT: config.Database.URL에서만 연결 정보를 가져옴
func NewPool(ctx context.Context, cfg *config.Config) (*Pool, error) {
	log.Info().
		Str("host", cfg.Database.Host).
		Str("port", cfg.Database.Port).
		Str("database", cfg.Database.Name).
		Msg("Connecting to PostgreSQL...")

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	// query.log (파일 로깅 시에만)
	if cfg.Logging.FileEnabled {
		queryLogger := applogger.NewQueryLogger(
			cfg.Logging.FilePath,
			cfg.Logging.RotationSize,
			cfg.Logging.RetentionDays,
		)
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   NewPgxZerologAdapter(queryLogger),
			LogLevel: traceLevel(cfg.Logging.Level),
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("✅ PostgreSQL connected successfully")

	if err := checkSchema(ctx, pool); err != nil {
		log.Warn().Err(err).Msg("Schema check failed, but continuing...")
	}

	return &Pool{Pool: pool}, nil
}

func traceLevel(level string) tracelog.LogLevel {
	switch level {
	case "info":
		return tracelog.LogLevelInfo
	case "warn":
		return tracelog.LogLevelWarn
	case "error":
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelDebug
	}
}

// checkSchema data 스키마 존재 여부 (없으면 migrate 필요)
func checkSchema(ctx context.Context, pool *pgxpool.Pool) error {
	var exists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_namespace WHERE nspname = $1)`, "data",
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check schema data: %w", err)
	}
	if !exists {
		log.Warn().Str("schema", "data").Msg("⚠️  Schema does not exist (run `quant migrate up`)")
	}
	return nil
}

// Close closes the connection pool
func (p *Pool) Close() {
	log.Info().Msg("Closing PostgreSQL connection pool...")
	p.Pool.Close()
}
