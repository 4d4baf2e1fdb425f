// Package uowmock fakes uow.UnitOfWork for usecase tests that need to
// script transaction outcomes without a store.
package uowmock

import (
	"context"
	"errors"
	"sync"

	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW dispatches to the function fields; an unset field returns errUnimplemented.
// Every call is recorded so tests can assert which loans were locked.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error

	mu       sync.Mutex
	txCalls  int
	loanTxes []string
}

func New() *UoW { return &UoW{} }

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}

func (m *UoW) WithWithinLoanTx(fn func(context.Context, string, func(uow.Repos, *loan.Loan) error) error) *UoW {
	m.WithinLoanTxFn = fn
	return m
}

// Failing returns a UoW whose transactions never reach their callback.
func Failing(err error) *UoW {
	return &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error { return err },
		WithinLoanTxFn: func(context.Context, string, func(uow.Repos, *loan.Loan) error) error {
			return err
		},
	}
}

// Bound runs every callback against repos, loading the locked loan through
// repos.Loans.GetByLoanIDForUpdate like the real implementations do.
func Bound(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			l, err := repos.Loans.GetByLoanIDForUpdate(ctx, loanID)
			if err != nil {
				return err
			}
			return fn(repos, l)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.mu.Lock()
	m.txCalls++
	m.mu.Unlock()
	if m.WithinTxFn == nil {
		return errUnimplemented
	}
	return m.WithinTxFn(ctx, fn)
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	m.mu.Lock()
	m.loanTxes = append(m.loanTxes, loanID)
	m.mu.Unlock()
	if m.WithinLoanTxFn == nil {
		return errUnimplemented
	}
	return m.WithinLoanTxFn(ctx, loanID, fn)
}

// TxCalls is the number of WithinTx calls so far.
func (m *UoW) TxCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txCalls
}

// LockedLoans lists the loan ids passed to WithinLoanTx, in call order.
func (m *UoW) LockedLoans() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loanTxes...)
}
