package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/loan"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad"), http.StatusUnprocessableEntity},
		{apperr.Denied(apperr.ReasonKYCRequired, "kyc"), http.StatusForbidden},
		{loan.ErrNotFound, http.StatusNotFound},
		{loan.ErrInvalidTransition, http.StatusConflict},
		{loan.ErrVersionConflict, http.StatusConflict},
		{apperr.Upstream("declined", nil), http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", apperr.Validation("x")), http.StatusUnprocessableEntity},
		{errors.New("driver: bad connection"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := StatusOf(tc.err); got != tc.want {
			t.Fatalf("StatusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestFail_BodyCarriesReasonAndHidesInternals(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	_ = fail(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), apperr.Denied(apperr.ReasonLimitExceeded, "principal 60000 exceeds borrow limit 50000"))
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if rec.Code != http.StatusForbidden || er.Reason != apperr.ReasonLimitExceeded {
		t.Fatalf("got %d %+v", rec.Code, er)
	}

	rec = httptest.NewRecorder()
	_ = fail(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), errors.New("dial tcp 10.0.0.3:3306: refused"))
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if rec.Code != http.StatusInternalServerError || er.Error != "internal error" {
		t.Fatalf("got %d %+v", rec.Code, er)
	}
}

func TestErrorHandler_RoutingErrorsUseErrorShape(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if rec.Code != http.StatusNotFound || er.Error == "" {
		t.Fatalf("got %d %+v", rec.Code, er)
	}
}
