package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check reports whether a dependency (database, redis) is reachable.
type Check func(ctx context.Context) error

type Handler struct{ checks map[string]Check }

func NewHandler(checks map[string]Check) *Handler { return &Handler{checks: checks} }

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	return c.JSON(code, map[string]any{
		"status":       status,
		"time":         time.Now().UTC().Format(time.RFC3339Nano),
		"dependencies": deps,
	})
}
