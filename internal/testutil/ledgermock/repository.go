package ledgermock

import (
	"context"

	domain "artha-lending/internal/domain/ledger"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset inserts succeed and are kept in Fundings/Repayments for assertions.
type Repo struct {
	CreateFundingFn       func(ctx context.Context, f *domain.Funding) error
	CreateRepaymentFn     func(ctx context.Context, r *domain.Repayment) error
	FundingByLoanIDFn     func(ctx context.Context, loanID string) (*domain.Funding, error)
	FundingsByLenderFn    func(ctx context.Context, lenderID string) ([]domain.Funding, error)
	FundingsByLoanIDsFn   func(ctx context.Context, loanIDs []string) ([]domain.Funding, error)
	RepaymentsByLoanIDFn  func(ctx context.Context, loanID string) ([]domain.Repayment, error)
	RepaymentsByLoanIDsFn func(ctx context.Context, loanIDs []string) ([]domain.Repayment, error)

	Fundings   []domain.Funding
	Repayments []domain.Repayment
}

func (m *Repo) CreateFunding(ctx context.Context, f *domain.Funding) error {
	if m.CreateFundingFn != nil {
		return m.CreateFundingFn(ctx, f)
	}
	m.Fundings = append(m.Fundings, *f)
	return nil
}

func (m *Repo) CreateRepayment(ctx context.Context, r *domain.Repayment) error {
	if m.CreateRepaymentFn != nil {
		return m.CreateRepaymentFn(ctx, r)
	}
	m.Repayments = append(m.Repayments, *r)
	return nil
}

func (m *Repo) FundingByLoanID(ctx context.Context, loanID string) (*domain.Funding, error) {
	if m.FundingByLoanIDFn != nil {
		return m.FundingByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrFundingNotFound
}

func (m *Repo) FundingsByLender(ctx context.Context, lenderID string) ([]domain.Funding, error) {
	if m.FundingsByLenderFn != nil {
		return m.FundingsByLenderFn(ctx, lenderID)
	}
	return nil, nil
}

func (m *Repo) FundingsByLoanIDs(ctx context.Context, loanIDs []string) ([]domain.Funding, error) {
	if m.FundingsByLoanIDsFn != nil {
		return m.FundingsByLoanIDsFn(ctx, loanIDs)
	}
	return nil, nil
}

func (m *Repo) RepaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	if m.RepaymentsByLoanIDFn != nil {
		return m.RepaymentsByLoanIDFn(ctx, loanID)
	}
	return m.Repayments, nil
}

func (m *Repo) RepaymentsByLoanIDs(ctx context.Context, loanIDs []string) ([]domain.Repayment, error) {
	if m.RepaymentsByLoanIDsFn != nil {
		return m.RepaymentsByLoanIDsFn(ctx, loanIDs)
	}
	return m.Repayments, nil
}
