package response

import (
	"errors"
	"net/http"

	"globalupi/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the gin context key holding the request ID.
const CtxRequestID = "request_id"

// Envelope carries the fields shared by every response body.
// Payload types embed it and gain the Body method set.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *Envelope) envelope() *Envelope { return e }

// Body is any response payload that embeds Envelope.
type Body interface {
	envelope() *Envelope
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Envelope
	ErrorCode string `json:"error_code"`
}

// OK sends a 200 response, marking the payload successful.
func OK(c *gin.Context, message string, body Body) {
	write(c, http.StatusOK, message, body)
}

// Created sends a 201 response, marking the payload successful.
func Created(c *gin.Context, message string, body Body) {
	write(c, http.StatusCreated, message, body)
}

func write(c *gin.Context, status int, message string, body Body) {
	env := body.envelope()
	env.Success = true
	env.Message = message
	env.RequestID = getRequestID(c)
	c.JSON(status, body)
}

// Error sends an error response. It checks if err is an *apperror.AppError
// and maps it accordingly, otherwise returns 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			_ = c.Error(appErr) // surfaced to the request logger, never to the client
		}
		c.JSON(appErr.HTTPStatus, ErrorResponse{
			Envelope:  Envelope{Message: appErr.Message, RequestID: getRequestID(c)},
			ErrorCode: appErr.Code,
		})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Envelope:  Envelope{Message: "Internal server error", RequestID: getRequestID(c)},
		ErrorCode: "SYS_000",
	})
}

// getRequestID retrieves request ID from context, or generates one.
func getRequestID(c *gin.Context) string {
	if id, exists := c.Get(CtxRequestID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
