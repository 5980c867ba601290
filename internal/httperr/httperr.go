package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// FromError writes the response for an error returned by a use case.
// It reports whether the error was a known business error; anything else
// becomes a generic 500 and the caller is expected to log it.
func FromError(c *gin.Context, err error) bool {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Something went wrong, please try again later.")
		return false
	}

	switch be.Kind {
	case KindMissingContext:
		Conflict(c, "restart_booking", "Your booking session is missing or expired. Please start again.")
	case KindValidation:
		BadRequest(c, be.Code, messageFor(be.Code))
	case KindConflict:
		Conflict(c, be.Code, messageFor(be.Code))
	case KindNotFound:
		NotFound(c, be.Code, messageFor(be.Code))
	case KindForbidden:
		Forbidden(c, be.Code, messageFor(be.Code))
	case KindConfiguration:
		Write(c, http.StatusUnprocessableEntity, be.Code, messageFor(be.Code))
	default:
		BadRequest(c, be.Code, messageFor(be.Code))
	}
	return true
}
