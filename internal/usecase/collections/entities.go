package collections

import "time"

type DefaultInput struct {
	LoanID  string
	ActorID string
	Note    string
}

// OverdueDTO is one ACTIVE loan that has fallen behind its schedule as of AsOf.
type OverdueDTO struct {
	LoanID              string    `json:"loan_id"`
	BorrowerID          string    `json:"borrower_id"`
	LenderID            string    `json:"lender_id"`
	EMIAmount           int64     `json:"emi_amount"`
	PaidEMICount        int       `json:"paid_emi_count"`
	DueInstallments     int       `json:"due_installments"`
	OverdueInstallments int       `json:"overdue_installments"`
	OverdueAmount       int64     `json:"overdue_amount"`
	LateFeeQuote        int64     `json:"late_fee_quote"`
	OldestDueDate       time.Time `json:"oldest_due_date"`
	// past maturity with money still owed; the collections process decides
	DefaultCandidate bool      `json:"default_candidate"`
	AsOf             time.Time `json:"as_of"`
}
