package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/infra/database/postgres"
)

// RequestIDHeader is the header name for request ID
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the context key for request ID
const RequestIDKey = "request_id"

// maxRequestIDLen 클라이언트 제공 ID 최대 길이
const maxRequestIDLen = 64

// RequestID middleware adds a unique request ID to each request.
// A client supplied X-Request-ID is kept unless it is empty or too long.
// The request context carries a zerolog logger tagged with the id,
// and the id is propagated to the pgx query log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		ctx := postgres.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(logger.WithContext(ctx))

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(RequestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
