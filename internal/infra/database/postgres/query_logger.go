package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// WithRequestID query.log에 request_id를 남기도록 컨텍스트에 저장
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// PgxZerologAdapter adapts zerolog.Logger to pgx's tracelog.Logger interface
type PgxZerologAdapter struct {
	logger zerolog.Logger
}

// NewPgxZerologAdapter creates a new adapter
func NewPgxZerologAdapter(logger zerolog.Logger) *PgxZerologAdapter {
	return &PgxZerologAdapter{logger: logger}
}

// Log implements tracelog.Logger
func (l *PgxZerologAdapter) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	var event *zerolog.Event
	switch level {
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info()
	}

	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		event = event.Str("request_id", id)
	}
	event.Fields(data).Msg(msg)
}
