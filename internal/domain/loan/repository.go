package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]Loan, error)
	ListByLoanIDs(ctx context.Context, loanIDs []string) ([]Loan, error)
	ListByStates(ctx context.Context, states ...State) ([]Loan, error)
	// Save persists l if nobody else saved it since it was read (Version check),
	// then bumps l.Version. A lost race returns ErrVersionConflict.
	Save(ctx context.Context, l *Loan) error
}

// TransitionRepository is the append-only audit trail of state changes.
type TransitionRepository interface {
	Append(ctx context.Context, t *Transition) error
	ListByLoanID(ctx context.Context, loanID string) ([]Transition, error)
}
