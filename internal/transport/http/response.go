package httptransport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the unified success envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

// ErrorBody is the unified error payload.
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

// RespondSuccess writes the success envelope.
func RespondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	if message == "" {
		message = "ok"
	}

	resp := APIResponse{
		Success: true,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	}

	c.JSON(httpStatus, resp)
}

// RespondError writes the error payload and records the error on the context.
func RespondError(c *gin.Context, httpStatus int, message string) {
	body := ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    httpStatus,
		Error:     http.StatusText(httpStatus),
		Message:   message,
	}

	c.JSON(httpStatus, body)
}

// AbortError writes the error payload and stops the handler chain.
func AbortError(c *gin.Context, httpStatus int, message string) {
	body := ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    httpStatus,
		Error:     http.StatusText(httpStatus),
		Message:   message,
	}

	c.AbortWithStatusJSON(httpStatus, body)
}
