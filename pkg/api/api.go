// Package api holds the JSON envelope shared by handlers and middleware.
package api

import "github.com/gin-gonic/gin"

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SuccessResponse wraps the data of a successful request.
type SuccessResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// ErrorResponse describes a failed request. Errors maps field names to
// messages and is null when the failure is not tied to fields.
type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Success writes data in the success envelope.
func Success(c *gin.Context, code int, data interface{}) {
	c.JSON(code, SuccessResponse{Status: StatusSuccess, Data: data})
}

// Error writes the error envelope.
func Error(c *gin.Context, code int, message string, fields map[string]string) {
	c.JSON(code, ErrorResponse{Status: StatusError, Message: message, Errors: fields})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Status: StatusError, Message: message})
}
