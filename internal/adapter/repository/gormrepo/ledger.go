package gormrepo

import (
	"context"

	ledgerDomain "artha-lending/internal/domain/ledger"

	"gorm.io/gorm"
)

// LedgerRepository only ever inserts; uniqueness on loan_id (fundings) and
// (loan_id, installment_index) (repayments) backs the single-funding and
// no-double-payment invariants.
type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) CreateFunding(ctx context.Context, f *ledgerDomain.Funding) error {
	err := r.db.WithContext(ctx).Create(f).Error
	if err != nil && isDuplicate(err) {
		return ledgerDomain.ErrDuplicateFunding
	}
	return err
}

func (r *LedgerRepository) CreateRepayment(ctx context.Context, rep *ledgerDomain.Repayment) error {
	err := r.db.WithContext(ctx).Create(rep).Error
	if err != nil && isDuplicate(err) {
		return ledgerDomain.ErrDuplicateRepayment
	}
	return err
}

func (r *LedgerRepository) FundingByLoanID(ctx context.Context, loanID string) (*ledgerDomain.Funding, error) {
	var out ledgerDomain.Funding
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, translate(err, ledgerDomain.ErrFundingNotFound)
	}
	return &out, nil
}

func (r *LedgerRepository) FundingsByLender(ctx context.Context, lenderID string) ([]ledgerDomain.Funding, error) {
	var out []ledgerDomain.Funding
	res := r.db.WithContext(ctx).Where("lender_id = ?", lenderID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) FundingsByLoanIDs(ctx context.Context, loanIDs []string) ([]ledgerDomain.Funding, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}
	var out []ledgerDomain.Funding
	res := r.db.WithContext(ctx).Where("loan_id IN ?", loanIDs).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) RepaymentsByLoanID(ctx context.Context, loanID string) ([]ledgerDomain.Repayment, error) {
	var out []ledgerDomain.Repayment
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("installment_index ASC").Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) RepaymentsByLoanIDs(ctx context.Context, loanIDs []string) ([]ledgerDomain.Repayment, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}
	var out []ledgerDomain.Repayment
	res := r.db.WithContext(ctx).
		Where("loan_id IN ?", loanIDs).
		Order("loan_id ASC, installment_index ASC").
		Find(&out)
	return out, res.Error
}
