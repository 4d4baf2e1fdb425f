package funding

import (
	"artha-lending/internal/domain/eligibility"
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
)

type FundInput struct {
	LoanID   string
	LenderID string
	Amount   int64
}

type FundingDTO struct {
	Funding ledger.Funding `json:"funding"`
	Loan    *loan.Loan     `json:"loan"`
}

type EligibilityDTO struct {
	LoanID  string               `json:"loan_id"`
	Subject eligibility.Subject  `json:"lender"`
	Result  eligibility.Decision `json:"result"`
}
