package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level          string // debug, info, warn, error
	Format         string // json, pretty
	FileEnabled    bool
	FilePath       string // logs directory path
	RotationSize   int    // MB
	RetentionDays  int
	ServiceName    string
	ServiceVersion string
}

// Init initializes the global logger
func Init(cfg Config) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	writers := []io.Writer{consoleWriter(cfg.Format)}

	if cfg.FileEnabled {
		if err := os.MkdirAll(cfg.FilePath, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		writers = append(writers, rotating(cfg, "app.log", 10))

		// error.log: ERROR 이상만 기록
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: rotating(cfg, "error.log", 10)},
			Level:  zerolog.ErrorLevel,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", cfg.ServiceVersion).
		Logger()

	log.Info().
		Str("level", cfg.Level).
		Str("format", cfg.Format).
		Bool("file_enabled", cfg.FileEnabled).
		Msg("Logger initialized")

	return nil
}

func consoleWriter(format string) io.Writer {
	if format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
	}
	return os.Stderr
}

func rotating(cfg Config, name string, backups int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.FilePath, name),
		MaxSize:    cfg.RotationSize,
		MaxAge:     cfg.RetentionDays,
		MaxBackups: backups,
		Compress:   true,
	}
}

// NewQueryLogger creates a logger for database queries
func NewQueryLogger(logPath string, rotationSize int, retentionDays int) zerolog.Logger {
	return newFileLogger(logPath, "query.log", "query", rotationSize, retentionDays, 5)
}

// NewAccessLogger creates a logger for HTTP access logs
func NewAccessLogger(logPath string, rotationSize int, retentionDays int) zerolog.Logger {
	return newFileLogger(logPath, "access.log", "access", rotationSize, retentionDays, 10)
}

// newFileLogger 전용 로그 파일, 경로가 없으면 전역 로거 사용
func newFileLogger(logPath, name, kind string, rotationSize, retentionDays, backups int) zerolog.Logger {
	if logPath == "" {
		return log.Logger
	}
	if err := os.MkdirAll(logPath, 0755); err != nil {
		log.Warn().Err(err).Str("type", kind).Msg("Failed to create log directory, using default logger")
		return log.Logger
	}

	cfg := Config{FilePath: logPath, RotationSize: rotationSize, RetentionDays: retentionDays}
	return zerolog.New(rotating(cfg, name, backups)).With().
		Timestamp().
		Str("type", kind).
		Logger()
}

// GetLogger returns the global logger
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
