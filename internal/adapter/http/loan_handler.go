package http

import (
	"net/http"

	domainLoan "artha-lending/internal/domain/loan"
	"artha-lending/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type quoteReq struct {
	Principal    int64 `query:"principal"     validate:"gt=0"`
	TenureMonths int   `query:"tenure_months" validate:"tenure"`
}

func (h *LoanHandler) Quote(c echo.Context) error {
	var req quoteReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	q, err := h.uc.Quote(req.Principal, req.TenureMonths)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

type guarantorReq struct {
	Name          string `json:"name"            validate:"max=128"`
	Phone         string `json:"phone"           validate:"max=32"`
	Relation      string `json:"relation"        validate:"max=64"`
	IDDocumentRef string `json:"id_document_ref" validate:"max=255"`
}

type createLoanReq struct {
	Principal    int64        `json:"principal"     validate:"gt=0"`
	TenureMonths int          `json:"tenure_months" validate:"tenure"`
	Purpose      string       `json:"purpose"       validate:"required,max=255"`
	Guarantor    guarantorReq `json:"guarantor"`
}

// CreateLoan drafts a loan for the calling borrower (X-Actor-Id).
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		BorrowerID:   actorID(c),
		Principal:    req.Principal,
		TenureMonths: req.TenureMonths,
		Purpose:      req.Purpose,
		Guarantor:    domainLoan.Guarantor(req.Guarantor),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Schedule(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	sched, err := h.uc.Schedule(c.Request().Context(), loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": loanID, "installments": sched})
}

func (h *LoanHandler) Events(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	trs, err := h.uc.Transitions(c.Request().Context(), loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": loanID, "events": trs})
}

type legalDocsReq struct {
	SignedAgreementRef string `json:"signed_agreement_ref" validate:"required,max=255"`
	VideoStatementRef  string `json:"video_statement_ref"  validate:"required,max=255"`
}

func (h *LoanHandler) AttachLegalDocs(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req legalDocsReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.AttachLegalDocs(c.Request().Context(), loan.LegalDocsInput{
		LoanID:             loanID,
		ActorID:            actorID(c),
		SignedAgreementRef: req.SignedAgreementRef,
		VideoStatementRef:  req.VideoStatementRef,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) SubmitForReview(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.SubmitForReview(c.Request().Context(), loanID, actorID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type noteReq struct {
	Note string `json:"note" validate:"max=500"`
}

func (h *LoanHandler) Withdraw(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req noteReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), loanID, actorID(c), req.Note)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
