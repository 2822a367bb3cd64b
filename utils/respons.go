package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError maps the error taxonomy onto HTTP status codes:
// validation 400, not found 404, conflict 409, everything else 500.
func RespondAppError(c *gin.Context, err error) {
	appErr := AsAppError(err)
	switch appErr.Kind {
	case KindValidation:
		RespondError(c, http.StatusBadRequest, appErr)
	case KindNotFound:
		RespondError(c, http.StatusNotFound, appErr)
	case KindConflict:
		RespondError(c, http.StatusConflict, appErr)
	default:
		RespondError(c, http.StatusInternalServerError, appErr)
	}
}
