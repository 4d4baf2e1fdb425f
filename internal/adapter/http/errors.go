package http

import (
	"errors"
	"net/http"

	"artha-lending/internal/domain/apperr"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string        `json:"error"`
	Reason  apperr.Reason `json:"reason,omitempty"`
	Details []FieldError  `json:"details,omitempty"`
}

// StatusOf maps the error taxonomy to HTTP. Anything outside it is a 500.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindEligibility:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail writes err as an ErrorResponse. Internal errors are not echoed back.
func fail(c echo.Context, err error) error {
	code := StatusOf(err)
	if code == http.StatusInternalServerError {
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error(), Reason: apperr.ReasonOf(err)})
}

// ErrorHandler renders errors that escape handlers (routing, middleware) in
// the same shape as handler errors.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, ErrorResponse{Error: msg})
			return
		}
		if StatusOf(err) == http.StatusInternalServerError {
			log.Error("unhandled error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}
		_ = fail(c, err)
	}
}
