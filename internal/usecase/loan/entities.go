package loan

import (
	"time"

	"artha-lending/internal/domain/loan"
)

type CreateLoanInput struct {
	BorrowerID   string
	Principal    int64
	TenureMonths int
	Purpose      string
	Guarantor    loan.Guarantor
}

type LegalDocsInput struct {
	LoanID             string
	ActorID            string
	SignedAgreementRef string
	VideoStatementRef  string
}

// LoanDTO is the stored loan plus figures derived from it on read.
type LoanDTO struct {
	*loan.Loan
	ScheduledTotal        int64      `json:"scheduled_total"`
	RemainingInstallments int        `json:"remaining_installments"`
	NextDueDate           *time.Time `json:"next_due_date,omitempty"`
	MaturityDate          *time.Time `json:"maturity_date,omitempty"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	dto := &LoanDTO{
		Loan:                  l,
		ScheduledTotal:        l.ScheduledTotal(),
		RemainingInstallments: l.RemainingInstallments(),
		MaturityDate:          l.MaturityDate(),
	}
	if l.State == loan.StateActive && l.DisbursedAt != nil {
		next := l.DisbursedAt.AddDate(0, l.PaidEMICount+1, 0)
		dto.NextDueDate = &next
	}
	return dto
}
