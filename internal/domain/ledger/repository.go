package ledger

import "context"

// Repository is append-only: there is no update or delete.
type Repository interface {
	CreateFunding(ctx context.Context, f *Funding) error
	CreateRepayment(ctx context.Context, r *Repayment) error

	FundingByLoanID(ctx context.Context, loanID string) (*Funding, error)
	FundingsByLender(ctx context.Context, lenderID string) ([]Funding, error)
	FundingsByLoanIDs(ctx context.Context, loanIDs []string) ([]Funding, error)
	// ordered by installment index
	RepaymentsByLoanID(ctx context.Context, loanID string) ([]Repayment, error)
	RepaymentsByLoanIDs(ctx context.Context, loanIDs []string) ([]Repayment, error)
}
