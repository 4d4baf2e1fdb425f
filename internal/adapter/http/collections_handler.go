package http

import (
	"net/http"
	"time"

	"artha-lending/internal/usecase/collections"

	"github.com/labstack/echo/v4"
)

type CollectionsHandler struct{ uc *collections.Usecase }

func NewCollectionsHandler(uc *collections.Usecase) *CollectionsHandler {
	return &CollectionsHandler{uc: uc}
}

// MarkDefault records the external default signal for an ACTIVE loan.
func (h *CollectionsHandler) MarkDefault(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req noteReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	l, err := h.uc.MarkDefault(c.Request().Context(), collections.DefaultInput{
		LoanID:  loanID,
		ActorID: actorID(c),
		Note:    req.Note,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

// Overdue lists ACTIVE loans behind schedule as of ?as_of (RFC3339, default now).
func (h *CollectionsHandler) Overdue(c echo.Context) error {
	var asOf time.Time
	if raw := c.QueryParam("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   "validation failed",
				Details: []FieldError{{Field: "as_of", Message: "must be RFC3339 with timezone"}},
			})
		}
		asOf = t.UTC()
	}
	xs, err := h.uc.Overdue(c.Request().Context(), asOf)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"count": len(xs), "loans": xs})
}
