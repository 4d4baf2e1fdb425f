package gormrepo

import (
	"context"
	"errors"
	"strings"

	loanDomain "artha-lending/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	err := r.db.WithContext(ctx).Create(l).Error
	if err != nil && isDuplicate(err) {
		return loanDomain.ErrAlreadyExists
	}
	return err
}

// Save is an optimistic update: the row must still carry the version we read.
func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	prev := l.Version
	l.Version = prev + 1
	res := r.db.WithContext(ctx).
		Model(l).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at").
		Updates(l)
	if res.Error != nil {
		l.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		l.Version = prev
		return loanDomain.ErrVersionConflict
	}
	return nil
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if res.Error != nil {
		return nil, translate(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	if res.Error != nil {
		return nil, translate(res.Error, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByLoanIDs(ctx context.Context, loanIDs []string) ([]loanDomain.Loan, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id IN ?", loanIDs).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByStates(ctx context.Context, states ...loanDomain.State) ([]loanDomain.Loan, error) {
	if len(states) == 0 {
		return nil, nil
	}
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("state IN ?", states).
		Order("state_updated_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

type TransitionRepository struct{ db *gorm.DB }

func NewTransitionRepository(db *gorm.DB) *TransitionRepository { return &TransitionRepository{db: db} }

func (r *TransitionRepository) Append(ctx context.Context, t *loanDomain.Transition) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransitionRepository) ListByLoanID(ctx context.Context, loanID string) ([]loanDomain.Transition, error) {
	var out []loanDomain.Transition
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Order("id ASC").Find(&out)
	return out, res.Error
}

// translate maps "no rows" onto the caller's domain error.
func translate(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// isDuplicate covers both gorm's translated error and raw driver messages
// for dialects that do not translate.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
