package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	Err        error  `json:"-"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

func (e *Err) Unwrap() error {
	return e.Err
}

// RenderErr writes err as JSON and aborts. Server errors are logged, the
// client only sees a generic message.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(err.Err),
		)
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusBadRequest,
		Message:    err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusUnauthorized,
		Message:    "wrong email or password",
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusUnauthorized,
		Message:    "unauthorized",
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusForbidden,
		Message:    err.Error(),
	}
}

func ErrNotFound(resource, key string, value any) *Err {
	return &Err{
		Err:        errors.New("not found"),
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s with %s %v not found", resource, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusConflict,
		Message:    err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:        err,
		StatusCode: http.StatusInternalServerError,
		Message:    "internal server error",
	}
}
