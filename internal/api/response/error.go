package response

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/wonny/quantdiag/internal/api/middleware"
	"github.com/wonny/quantdiag/internal/domain/market"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Details   string       `json:"details,omitempty"`
	RequestID string       `json:"request_id"`
	Timestamp time.Time    `json:"timestamp"`
	Fields    []FieldError `json:"fields,omitempty"`
}

// FieldError represents a field-level validation error
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidSeries    = "INVALID_SERIES"
	ErrCodeTimeout          = "TIMEOUT"

	ErrCodeExternalAPIError = "EXTERNAL_API_ERROR"
)

// Error sends an error response
func Error(c *gin.Context, statusCode int, code, message string) {
	ErrorWithDetails(c, statusCode, code, message, "")
}

// ErrorWithDetails sends an error response with additional details
func ErrorWithDetails(c *gin.Context, statusCode int, code, message, details string) {
	resp := ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
			Timestamp: time.Now(),
		},
	}

	event := log.Warn()
	if statusCode >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Str("request_id", resp.Error.RequestID).
		Str("error_code", code).
		Str("message", message).
		Str("details", details).
		Int("status", statusCode).
		Msg("API error response")

	c.AbortWithStatusJSON(statusCode, resp)
}

// ValidationError sends a validation error response with field errors
func ValidationError(c *gin.Context, fields []FieldError) {
	resp := ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrCodeValidation,
			Message:   "Request validation failed",
			RequestID: middleware.GetRequestID(c),
			Timestamp: time.Now(),
			Fields:    fields,
		},
	}

	log.Warn().
		Str("request_id", resp.Error.RequestID).
		Str("error_code", ErrCodeValidation).
		Int("field_count", len(fields)).
		Msg("Validation error")

	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, ErrCodeInvalidParameter, message)
}

// NotFound sends a 404 Not Found error
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError sends a 500 Internal Server Error
func InternalError(c *gin.Context, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	ErrorWithDetails(c, http.StatusInternalServerError, ErrCodeInternalServer, "An unexpected error occurred", details)
}

// FromError 도메인 에러를 HTTP 상태로 변환
//   - not found → 404
//   - 잘못된 입력/시계열 → 400 / 422
//   - 외부 API → 502
//   - 타임아웃 → 504
func FromError(c *gin.Context, err error) {
	switch {
	case market.IsNotFoundError(err):
		ErrorWithDetails(c, http.StatusNotFound, ErrCodeNotFound, "Data not found", err.Error())
	case errors.Is(err, market.ErrInvalidMarket), errors.Is(err, market.ErrInvalidStockCode):
		ErrorWithDetails(c, http.StatusBadRequest, ErrCodeInvalidParameter, "Invalid parameter", err.Error())
	case market.IsInvalidInput(err):
		ErrorWithDetails(c, http.StatusUnprocessableEntity, ErrCodeInvalidSeries, "Stored series is not usable", err.Error())
	case market.IsExternalError(err):
		ErrorWithDetails(c, http.StatusBadGateway, ErrCodeExternalAPIError, "External service error", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		ErrorWithDetails(c, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", err.Error())
	default:
		InternalError(c, err)
	}
}
