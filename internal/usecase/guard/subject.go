// Package guard builds eligibility subjects inside the caller's transaction,
// so role and exposure are always read from the ledger the guard protects.
package guard

import (
	"context"

	"artha-lending/internal/domain/eligibility"
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/domain/user"
)

// LoadSubject derives u's role and lending exposure from r.
func LoadSubject(ctx context.Context, r uow.Repos, u *user.User) (eligibility.Subject, error) {
	own, err := r.Loans.ListByBorrowerID(ctx, u.UserID)
	if err != nil {
		return eligibility.Subject{}, err
	}
	fundings, err := r.Ledger.FundingsByLender(ctx, u.UserID)
	if err != nil {
		return eligibility.Subject{}, err
	}
	funded, err := r.Loans.ListByLoanIDs(ctx, loanIDs(fundings))
	if err != nil {
		return eligibility.Subject{}, err
	}
	return eligibility.NewSubject(u, own, fundings, funded), nil
}

func loanIDs(fs []ledger.Funding) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.LoanID)
	}
	return out
}
