package http

import (
	"net/http"

	domainUser "artha-lending/internal/domain/user"
	"artha-lending/internal/usecase/portfolio"
	ucUser "artha-lending/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	uc        *ucUser.Usecase
	portfolio *portfolio.Usecase
}

func NewUserHandler(uc *ucUser.Usecase, p *portfolio.Usecase) *UserHandler {
	return &UserHandler{uc: uc, portfolio: p}
}

type registerUserReq struct {
	UserID      string `json:"user_id"      validate:"omitempty,hex32"`
	DisplayName string `json:"display_name" validate:"required,max=128"`
	KYCStatus   string `json:"kyc_status"   validate:"omitempty,kyc"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req registerUserReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	u, err := h.uc.Register(c.Request().Context(), ucUser.RegisterInput{
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		KYCStatus:   domainUser.KYCStatus(req.KYCStatus),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) Get(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	u, err := h.uc.Get(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

type kycReq struct {
	KYCStatus string `json:"kyc_status" validate:"required,kyc"`
}

func (h *UserHandler) RecordKYC(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	var req kycReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	u, err := h.uc.RecordKYC(c.Request().Context(), userID, domainUser.KYCStatus(req.KYCStatus))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

type bankDetailsReq struct {
	BankDetailsAdded *bool `json:"bank_details_added" validate:"required"`
}

func (h *UserHandler) SetBankDetails(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	var req bankDetailsReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	u, err := h.uc.SetBankDetails(c.Request().Context(), userID, *req.BankDetailsAdded)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

type creditScoreReq struct {
	CreditScore int `json:"credit_score" validate:"required"`
}

func (h *UserHandler) SetCreditScore(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	var req creditScoreReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	u, err := h.uc.SetCreditScore(c.Request().Context(), userID, req.CreditScore)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

type eligibilityReq struct {
	Amount int64 `query:"amount" validate:"gte=0"`
}

func (h *UserHandler) Eligibility(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	var req eligibilityReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Eligibility(c.Request().Context(), userID, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UserHandler) Portfolio(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	p, err := h.portfolio.Summary(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
