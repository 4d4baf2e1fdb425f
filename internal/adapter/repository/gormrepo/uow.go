package gormrepo

import (
	"context"

	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/domain/user"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:       &LoanRepository{db: tx},
		Transitions: &TransitionRepository{db: tx},
		Users:       &UserRepository{db: tx},
		Ledger:      &LedgerRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}

// Migrate creates or updates every table the engine owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&loan.Loan{},
		&loan.Transition{},
		&ledger.Funding{},
		&ledger.Repayment{},
	)
}
