// Package fixture seeds a memory store for usecase tests.
package fixture

import (
	"context"
	"testing"
	"time"

	"artha-lending/internal/adapter/repository/memory"
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/policy"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/domain/user"
	"artha-lending/pkg/id"
)

var Epoch = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

func User(t testing.TB, s *memory.Store, userID string, kyc user.KYCStatus, bank bool) *user.User {
	t.Helper()
	u := &user.User{UserID: userID, DisplayName: "user " + userID[:4], KYCStatus: kyc, BankDetailsAdded: bank, CreatedAt: Epoch}
	put(t, s, func(ctx context.Context, r uow.Repos) error { return r.Users.Create(ctx, u) })
	return u
}

func VerifiedUser(t testing.TB, s *memory.Store) *user.User {
	return User(t, s, id.NewID32(), user.KYCVerified, false)
}

// Loan stores a loan already in state, with lifecycle timestamps filled in
// as if it got there the normal way. Loans at FUNDED or later also get their
// funding row from lenderID.
func Loan(t testing.TB, s *memory.Store, borrowerID, lenderID string, principal int64, tenure int, state loan.State) *loan.Loan {
	t.Helper()
	at := Epoch
	l, _ := loan.New(id.NewID32(), borrowerID, "grow the shop inventory", loan.Guarantor{Name: "G", Phone: "98"}, loan.TermsFromQuote(policy.Default().Quote(principal, tenure)), at)
	l.State = state
	if state != loan.StateDraft {
		l.SignedAgreementRef, l.VideoStatementRef = "doc://a", "media://v"
	}
	switch state {
	case loan.StateListed:
		l.ListedAt = &at
	case loan.StateFunded, loan.StateActive, loan.StateClosed, loan.StateDefaulted:
		l.ListedAt, l.FundedAt = &at, &at
		l.LenderID, l.FundedAmount = lenderID, principal
		if state != loan.StateFunded {
			l.DisbursedAt = &at
		}
	}
	put(t, s, func(ctx context.Context, r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.LenderID == "" {
			return nil
		}
		return r.Ledger.CreateFunding(ctx, &ledger.Funding{
			FundingID: id.NewID32(), LoanID: l.LoanID, LenderID: lenderID, Amount: principal, ExternalReference: "seed", CreatedAt: at,
		})
	})
	return l
}

// Read runs fn in its own transaction and fails the test on error.
func Read(t testing.TB, s *memory.Store, fn func(ctx context.Context, r uow.Repos) error) {
	t.Helper()
	put(t, s, fn)
}

func put(t testing.TB, s *memory.Store, fn func(ctx context.Context, r uow.Repos) error) {
	t.Helper()
	ctx := context.Background()
	if err := s.WithinTx(ctx, func(r uow.Repos) error { return fn(ctx, r) }); err != nil {
		t.Fatalf("fixture: %v", err)
	}
}
