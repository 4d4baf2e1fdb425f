package http

import (
	"net/http"
	"strings"

	"artha-lending/internal/adapter/middleware"
	"artha-lending/pkg/id"

	"github.com/labstack/echo/v4"
)

// bind decodes path, query and body into req and validates it. When it
// returns false the 400/422 response is already written and err is what the
// handler should return.
func bind(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// pathID reads a 32-hex path parameter.
func pathID(c echo.Context, name string) (string, bool, error) {
	v := c.Param(name)
	if v == "" {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + name + " path param"})
	}
	if !id.Valid(v) {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " path param"})
	}
	return v, true, nil
}

// actorID is the caller identity forwarded by the upstream gateway.
func actorID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(middleware.HeaderActorID))
}
