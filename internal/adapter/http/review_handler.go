package http

import (
	"net/http"

	"artha-lending/internal/usecase/review"

	"github.com/labstack/echo/v4"
)

type ReviewHandler struct{ uc *review.Usecase }

func NewReviewHandler(uc *review.Usecase) *ReviewHandler { return &ReviewHandler{uc: uc} }

type verificationReq struct {
	Passed *bool  `json:"passed" validate:"required"`
	Note   string `json:"note"   validate:"max=500"`
}

// RecordVerification takes the field verifier's verdict; the reviewer is the caller.
func (h *ReviewHandler) RecordVerification(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req verificationReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.RecordVerification(c.Request().Context(), review.VerificationInput{
		LoanID:     loanID,
		Passed:     *req.Passed,
		ReviewerID: actorID(c),
		Note:       req.Note,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
