package repayment

import (
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
)

// RepayInput pays one or more consecutive installments starting at
// InstallmentIndex. Amount must be a whole number of EMIs.
type RepayInput struct {
	LoanID           string
	PayerID          string
	InstallmentIndex int
	Amount           int64
}

type RepaymentDTO struct {
	Records []ledger.Repayment `json:"records"`
	Loan    *loan.Loan         `json:"loan"`
	Closed  bool               `json:"closed"`
	// set only when this payment closed the loan
	BorrowerCreditScore *int `json:"borrower_credit_score,omitempty"`
}

type HistoryDTO struct {
	LoanID       string             `json:"loan_id"`
	PaidEMICount int                `json:"paid_emi_count"`
	TotalRepaid  int64              `json:"total_repaid"`
	Outstanding  int64              `json:"outstanding"`
	Records      []ledger.Repayment `json:"records"`
}
