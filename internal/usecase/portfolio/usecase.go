// Package portfolio folds a user's totals from the ledger on every read.
package portfolio

import (
	"context"

	"artha-lending/internal/domain/eligibility"
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/uow"
)

type Usecase struct {
	uow uow.UnitOfWork
}

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

func (u *Usecase) Summary(ctx context.Context, userID string) (*ledger.Portfolio, error) {
	var out ledger.Portfolio
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Users.GetByUserID(ctx, userID); err != nil {
			return err
		}
		own, err := r.Loans.ListByBorrowerID(ctx, userID)
		if err != nil {
			return err
		}
		fundings, err := r.Ledger.FundingsByLender(ctx, userID)
		if err != nil {
			return err
		}
		fundedIDs := make([]string, 0, len(fundings))
		for _, f := range fundings {
			fundedIDs = append(fundedIDs, f.LoanID)
		}
		funded, err := r.Loans.ListByLoanIDs(ctx, fundedIDs)
		if err != nil {
			return err
		}

		all := append(append([]loan.Loan{}, own...), funded...)
		ids := make([]string, 0, len(all))
		for _, l := range all {
			ids = append(ids, l.LoanID)
		}
		// the borrower side needs the funding rows of loans someone else funded
		allFundings, err := r.Ledger.FundingsByLoanIDs(ctx, ids)
		if err != nil {
			return err
		}
		repayments, err := r.Ledger.RepaymentsByLoanIDs(ctx, ids)
		if err != nil {
			return err
		}

		out = ledger.FoldPortfolio(userID, all, allFundings, repayments)
		out.Role = eligibility.DeriveRole(own, funded)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
