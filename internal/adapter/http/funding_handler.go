package http

import (
	"net/http"

	"artha-lending/internal/usecase/funding"

	"github.com/labstack/echo/v4"
)

type FundingHandler struct{ uc *funding.Usecase }

func NewFundingHandler(uc *funding.Usecase) *FundingHandler { return &FundingHandler{uc: uc} }

type fundReq struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

// Fund commits the calling lender's money to a LISTED loan.
func (h *FundingHandler) Fund(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req fundReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Fund(c.Request().Context(), funding.FundInput{
		LoanID:   loanID,
		LenderID: actorID(c),
		Amount:   req.Amount,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type fundEligibilityReq struct {
	LenderID string `query:"lender_id" validate:"omitempty,hex32"`
}

func (h *FundingHandler) Eligibility(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req fundEligibilityReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	lenderID := req.LenderID
	if lenderID == "" {
		lenderID = actorID(c)
	}
	dto, err := h.uc.Eligibility(c.Request().Context(), loanID, lenderID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
