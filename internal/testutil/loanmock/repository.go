package loanmock

import (
	"context"

	domain "artha-lending/internal/domain/loan"
)

var (
	_ domain.Repository           = (*Repo)(nil)
	_ domain.TransitionRepository = (*TransitionRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error; reads default to context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByBorrowerIDFn     func(ctx context.Context, borrowerID string) ([]domain.Loan, error)
	ListByLoanIDsFn        func(ctx context.Context, loanIDs []string) ([]domain.Loan, error)
	ListByStatesFn         func(ctx context.Context, states ...domain.State) ([]domain.Loan, error)
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

// list reads default to empty so guards see a user with no history
func (m *Repo) ListByBorrowerID(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	if m.ListByBorrowerIDFn != nil {
		return m.ListByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, nil
}

func (m *Repo) ListByLoanIDs(ctx context.Context, loanIDs []string) ([]domain.Loan, error) {
	if m.ListByLoanIDsFn != nil {
		return m.ListByLoanIDsFn(ctx, loanIDs)
	}
	return nil, nil
}

func (m *Repo) ListByStates(ctx context.Context, states ...domain.State) ([]domain.Loan, error) {
	if m.ListByStatesFn != nil {
		return m.ListByStatesFn(ctx, states...)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

// TransitionRepo records appended transitions when AppendFn is unset.
type TransitionRepo struct {
	AppendFn       func(ctx context.Context, t *domain.Transition) error
	ListByLoanIDFn func(ctx context.Context, loanID string) ([]domain.Transition, error)

	Appended []domain.Transition
}

func (m *TransitionRepo) Append(ctx context.Context, t *domain.Transition) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, t)
	}
	m.Appended = append(m.Appended, *t)
	return nil
}

func (m *TransitionRepo) ListByLoanID(ctx context.Context, loanID string) ([]domain.Transition, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return m.Appended, nil
}
