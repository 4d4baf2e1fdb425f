package gormrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	ledgerDomain "artha-lending/internal/domain/ledger"
	loanDomain "artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/uow"
	"artha-lending/pkg/id"

	"golang.org/x/sync/errgroup"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	ledgerRepo := NewLedgerRepository(db)

	loanID := id.NewID32()
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan(loanID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", loanDomain.StateListed)); err != nil {
			return err
		}
		return r.Ledger.CreateFunding(ctx, &ledgerDomain.Funding{FundingID: id.NewID32(), LoanID: loanID, LenderID: "cccccccccccccccccccccccccccccccc", Amount: 50000})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := loanRepo.GetByLoanID(ctx, loanID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := ledgerRepo.FundingByLoanID(ctx, loanID); err != nil {
		t.Fatalf("funding not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	ledgerRepo := NewLedgerRepository(db)

	sentinel := errors.New("boom")
	loanID := id.NewID32()

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan(loanID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", loanDomain.StateListed)); err != nil {
			return err
		}
		if err := r.Ledger.CreateFunding(ctx, &ledgerDomain.Funding{FundingID: id.NewID32(), LoanID: loanID, LenderID: "cccccccccccccccccccccccccccccccc", Amount: 50000}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	if _, err := loanRepo.GetByLoanID(ctx, loanID); !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected loan not found after rollback, got %v", err)
	}
	if _, err := ledgerRepo.FundingByLoanID(ctx, loanID); !errors.Is(err, ledgerDomain.ErrFundingNotFound) {
		t.Fatalf("expected funding not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	trRepo := NewTransitionRepository(db)

	loanID := id.NewID32()
	if err := loanRepo.Create(ctx, makeLoan(loanID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", loanDomain.StateAwaitingSignature)); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	err := guow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l == nil || l.LoanID != loanID || l.State != loanDomain.StateAwaitingSignature {
			t.Fatalf("unexpected loan passed to fn: %+v", l)
		}
		tr, err := l.PassVerification(time.Now().UTC())
		if err != nil {
			return err
		}
		if err := r.Transitions.Append(ctx, &tr); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx commit err: %v", err)
	}

	got, err := loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID post-commit: %v", err)
	}
	if got.State != loanDomain.StateListed || got.ListedAt == nil {
		t.Fatalf("loan not listed: state=%s listed_at=%v", got.State, got.ListedAt)
	}
	trail, _ := trRepo.ListByLoanID(ctx, loanID)
	if len(trail) != 1 || trail[0].Action != loanDomain.ActionVerificationPassed {
		t.Fatalf("unexpected trail: %+v", trail)
	}
}

func TestGormUoW_WithinLoanTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	loanID := id.NewID32()
	if err := loanRepo.Create(ctx, makeLoan(loanID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", loanDomain.StateListed)); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if _, err := l.Fund("cccccccccccccccccccccccccccccccc", l.Principal, time.Now().UTC()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return sentinel
	})

	got, err := loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("post-rollback GetByLoanID: %v", err)
	}
	if got.State != loanDomain.StateListed || got.LenderID != "" {
		t.Fatalf("expected untouched LISTED loan after rollback, got %s lender=%q", got.State, got.LenderID)
	}
}

func TestGormUoW_WithinLoanTx_LoanNotFound(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	err := guow.WithinLoanTx(context.Background(), "ffffffffffffffffffffffffffffffff", func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatalf("callback should not be called when loan missing")
		return nil
	})
	if !errors.Is(err, loanDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGormUoW_ConcurrentFundingRecordsOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	ledgerRepo := NewLedgerRepository(db)

	loanID := id.NewID32()
	if err := loanRepo.Create(ctx, makeLoan(loanID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", loanDomain.StateListed)); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	const attempts = 8
	results := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		i := i
		lender := id.NewID32()
		g.Go(func() error {
			results[i] = guow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
				if _, err := l.Fund(lender, l.Principal, time.Now().UTC()); err != nil {
					return err
				}
				if err := r.Ledger.CreateFunding(ctx, &ledgerDomain.Funding{FundingID: id.NewID32(), LoanID: loanID, LenderID: lender, Amount: l.Principal}); err != nil {
					return err
				}
				return r.Loans.Save(ctx, l)
			})
			return nil
		})
	}
	_ = g.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d (%v)", wins, results)
	}
	fs, err := ledgerRepo.FundingsByLoanIDs(ctx, []string{loanID})
	if err != nil || len(fs) != 1 {
		t.Fatalf("expected exactly one funding row, got %d (%v)", len(fs), err)
	}
}
