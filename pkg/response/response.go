package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the envelope for every non-2xx response. Success payloads are
// written directly by the handlers since their shapes are part of the API
// contract.
type ErrorBody struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
}

func build(c *gin.Context, status int, message string, details any) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return ErrorBody{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: c.GetString("request_id"),
		Message:   message,
		Details:   details,
	}
}

// Error writes the error envelope and lets the handler chain continue.
func Error(c *gin.Context, status int, message string, details any) {
	body := build(c, status, message, details)
	c.JSON(body.Status, body)
}

// AbortError writes the error envelope and aborts the handler chain,
// for use inside middleware.
func AbortError(c *gin.Context, status int, message string, details any) {
	body := build(c, status, message, details)
	c.AbortWithStatusJSON(body.Status, body)
}
