package httptransport

import "github.com/gin-gonic/gin"

// ErrorResponse is the failure wire shape: a stable category plus optional
// diagnostic detail (withheld in production mode).
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// APIResponse is the generic envelope used by non-pipeline endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

// RespondError writes the pipeline failure wire shape.
func RespondError(c *gin.Context, httpStatus int, message, details string) {
	c.JSON(httpStatus, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// RespondSuccess writes the generic success envelope.
func RespondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	if message == "" {
		message = "ok"
	}

	c.JSON(httpStatus, APIResponse{
		Success: true,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}
