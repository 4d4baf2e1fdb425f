package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestHealth_ReturnsOKWithRFC3339NanoUTC(t *testing.T) {
	e := echo.New()
	h := NewHandler(map[string]Check{"db": func(context.Context) error { return nil }})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	start := time.Now().UTC()

	if err := h.Health(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	ct := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body struct {
		Status       string            `json:"status"`
		Time         string            `json:"time"`
		Dependencies map[string]string `json:"dependencies"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	if body.Status != "ok" || body.Dependencies["db"] != "ok" {
		t.Fatalf("unexpected body: %+v", body)
	}
	parsed, err := time.Parse(time.RFC3339Nano, body.Time)
	if err != nil {
		t.Fatalf("time not RFC3339Nano: %v (value=%q)", err, body.Time)
	}
	if parsed.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", parsed.Location())
	}
	now := time.Now().UTC()
	if parsed.Before(start.Add(-2*time.Second)) || parsed.After(now.Add(2*time.Second)) {
		t.Fatalf("time not within expected window: parsed=%v start=%v now=%v", parsed, start, now)
	}
}

func TestHealth_DegradedWhenDependencyDown(t *testing.T) {
	e := echo.New()
	h := NewHandler(map[string]Check{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	rec := httptest.NewRecorder()
	if err := h.Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redis":"connection refused"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
