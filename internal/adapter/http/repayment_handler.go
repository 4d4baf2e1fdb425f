package http

import (
	"net/http"

	"artha-lending/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
)

type RepaymentHandler struct{ uc *repayment.Usecase }

func NewRepaymentHandler(uc *repayment.Usecase) *RepaymentHandler {
	return &RepaymentHandler{uc: uc}
}

type repayReq struct {
	InstallmentIndex *int  `json:"installment_index" validate:"required,gte=0"`
	Amount           int64 `json:"amount"            validate:"gt=0"`
}

func (h *RepaymentHandler) Repay(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req repayReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Repay(c.Request().Context(), repayment.RepayInput{
		LoanID:           loanID,
		PayerID:          actorID(c),
		InstallmentIndex: *req.InstallmentIndex,
		Amount:           req.Amount,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RepaymentHandler) History(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.History(c.Request().Context(), loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
