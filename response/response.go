package response

import (
	"net/http"

	apperrors "membergate/errors"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every API reply. Code is 1 on success
// and 0 on failure; Error carries the machine readable error code.
type Response struct {
	Code  int         `json:"code"`
	Mess  string      `json:"mess"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

type ResponseTotal struct {
	Code  int         `json:"code"`
	Mess  string      `json:"mess"`
	Data  interface{} `json:"data,omitempty"`
	Total int         `json:"total"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "OK",
		Data: data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Created",
		Data: data,
	})
}

func SuccessWithTotal(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, ResponseTotal{
		Code:  1,
		Mess:  "OK",
		Total: total,
		Data:  data,
	})
}

// Error writes a failure envelope with an explicit status.
func Error(c *gin.Context, status int, code apperrors.ErrorCode, message string) {
	c.JSON(status, Response{
		Code:  0,
		Mess:  message,
		Error: string(code),
	})
}

// FromError maps err to its status code. Internal details never reach the
// client: only the AppError message of client errors is echoed.
func FromError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		ServerError(c)
		return
	}
	status := StatusOf(appErr.Code)
	if status >= http.StatusInternalServerError {
		ServerError(c)
		return
	}
	Error(c, status, appErr.Code, appErr.Message)
}

func StatusOf(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrCodeInvalidCredentials, apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeInactive, apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, apperrors.ErrCodeInternal, "internal server error")
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, apperrors.ErrCodeUnauthenticated, "authentication required")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, apperrors.ErrCodeForbidden, "insufficient role")
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, apperrors.ErrCodeNotFound, "not found")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, message)
}
