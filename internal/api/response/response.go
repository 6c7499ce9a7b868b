package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wonny/quantdiag/internal/api/middleware"
)

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// Meta represents metadata in response
type Meta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Count     int       `json:"count,omitempty"`
	Total     int       `json:"total,omitempty"`
}

func newMeta(c *gin.Context) Meta {
	return Meta{
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now(),
	}
}

// Success sends a successful response with data
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: newMeta(c)})
}

// SuccessWithMessage sends a successful response with data and message
func SuccessWithMessage(c *gin.Context, data any, message string) {
	meta := newMeta(c)
	meta.Message = message
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: meta})
}

// SuccessList sends list data with the returned count and the count before truncation
func SuccessList(c *gin.Context, data any, count, total int) {
	meta := newMeta(c)
	meta.Count = count
	meta.Total = total
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: meta})
}

// Accepted sends a 202 Accepted response
func Accepted(c *gin.Context, data any, message string) {
	meta := newMeta(c)
	meta.Message = message
	c.JSON(http.StatusAccepted, SuccessResponse{Data: data, Meta: meta})
}
