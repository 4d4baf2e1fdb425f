package uow

import (
	"context"

	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans       loan.Repository
	Transitions loan.TransitionRepository
	Users       user.Repository
	Ledger      ledger.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; any user row is locked after it
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
