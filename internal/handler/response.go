package handler

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/newsai/admin-api/pkg/errors"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError maps an application error onto the proper HTTP status. The
// message body is what the admin UI shows the operator verbatim.
func RespondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
		return
	}
	c.JSON(500, NewErrorResponse(err.Error()))
}
