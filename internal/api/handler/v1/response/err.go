package response

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fundhub/campaign-api/internal/pkg/apperr"
)

// Err is the body of every error response.
type Err struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"status"`          // user-level status message
	Code       string `json:"code,omitempty"`  // stable application error code
	ErrorText  string `json:"error,omitempty"` // application-level error message
}

func RenderErr(ctx *gin.Context, err *Err) {
	if err.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err.Err),
		)
	}

	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request.",
		Code:           "bad_request",
		ErrorText:      err.Error(),
	}
}

func ErrInvalidInput(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid input.",
		Code:           "validation_failed",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthenticated(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Authentication required.",
		Code:           "unauthenticated",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		Code:           "internal",
		ErrorText:      "something went wrong, please try again later",
	}
}

var statusByKind = map[apperr.Kind]struct {
	code int
	text string
}{
	apperr.KindUnauthenticated: {http.StatusUnauthorized, "Authentication required."},
	apperr.KindForbidden:       {http.StatusForbidden, "Permission denied."},
	apperr.KindNotFound:        {http.StatusNotFound, "Resource not found."},
	apperr.KindInvalidState:    {http.StatusConflict, "Invalid state."},
	apperr.KindConflict:        {http.StatusConflict, "Conflict."},
	apperr.KindValidation:      {http.StatusBadRequest, "Invalid input."},
}

// FromError turns a service error into a response, keeping the stable code
// of typed errors. Anything untyped is an internal error.
func FromError(err error) *Err {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return ErrInternalServerError(err)
	}

	status, ok := statusByKind[appErr.Kind]
	if !ok {
		return ErrInternalServerError(err)
	}

	return &Err{
		Err:            err,
		HTTPStatusCode: status.code,
		StatusText:     status.text,
		Code:           appErr.Code,
		ErrorText:      appErr.Error(),
	}
}
