package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
	"github.com/noah-isme/campus-connect-api/pkg/observability"
)

// Headers is the metadata block of every response.
type Headers struct {
	Error   int         `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Envelope represents the common response contract.
type Envelope struct {
	Headers Headers     `json:"headers"`
	Body    interface{} `json:"body"`
}

const debugKey = "response_debug"

// Debug marks the request so error responses keep the underlying cause.
func Debug(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(debugKey, enabled)
		c.Next()
	}
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, message string, body interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	if message == "" {
		message = "Success"
	}
	if body == nil {
		body = gin.H{}
	}
	c.JSON(status, Envelope{Headers: Headers{Error: 0, Message: message}, Body: body})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, body interface{}) {
	JSON(c, http.StatusOK, "", body)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, message string, body interface{}) {
	JSON(c, http.StatusCreated, message, body)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	message := appErr.Message
	if appErr.Status >= http.StatusInternalServerError {
		observability.CaptureErr(err)
		if c.GetBool(debugKey) && appErr.Err != nil {
			message = appErr.Error()
		}
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{
		Headers: Headers{Error: 1, Message: message, Code: appErr.Code, Data: appErr.Details},
		Body:    gin.H{},
	})
}
