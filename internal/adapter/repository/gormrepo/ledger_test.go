package gormrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	ledgerDomain "artha-lending/internal/domain/ledger"
	userDomain "artha-lending/internal/domain/user"
	"artha-lending/pkg/id"

	"github.com/shopspring/decimal"
)

func TestLedger_SingleFundingPerLoan(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	lender := id.NewID32()
	first := &ledgerDomain.Funding{FundingID: id.NewID32(), LoanID: loanID, LenderID: lender, Amount: 50000, ExternalReference: "ref-1", CreatedAt: time.Now().UTC()}
	if err := repo.CreateFunding(ctx, first); err != nil {
		t.Fatalf("CreateFunding: %v", err)
	}

	second := &ledgerDomain.Funding{FundingID: id.NewID32(), LoanID: loanID, LenderID: id.NewID32(), Amount: 50000, ExternalReference: "ref-2", CreatedAt: time.Now().UTC()}
	if err := repo.CreateFunding(ctx, second); !errors.Is(err, ledgerDomain.ErrDuplicateFunding) {
		t.Fatalf("expected ErrDuplicateFunding, got %v", err)
	}

	got, err := repo.FundingByLoanID(ctx, loanID)
	if err != nil || got.ExternalReference != "ref-1" {
		t.Fatalf("FundingByLoanID = %+v, %v", got, err)
	}
	if _, err := repo.FundingByLoanID(ctx, id.NewID32()); !errors.Is(err, ledgerDomain.ErrFundingNotFound) {
		t.Fatalf("expected ErrFundingNotFound, got %v", err)
	}

	byLender, err := repo.FundingsByLender(ctx, lender)
	if err != nil || len(byLender) != 1 {
		t.Fatalf("FundingsByLender: n=%d err=%v", len(byLender), err)
	}
	byLoan, err := repo.FundingsByLoanIDs(ctx, []string{loanID})
	if err != nil || len(byLoan) != 1 {
		t.Fatalf("FundingsByLoanIDs: n=%d err=%v", len(byLoan), err)
	}
}

func TestLedger_RepaymentsAreUniquePerInstallment(t *testing.T) {
	db := openTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	mk := func(idx int, interest string) *ledgerDomain.Repayment {
		return &ledgerDomain.Repayment{
			RepaymentID:      id.NewID32(),
			LoanID:           loanID,
			InstallmentIndex: idx,
			Amount:           4466,
			InterestPortion:  decimal.RequireFromString(interest),
			PrincipalPortion: decimal.NewFromInt(4466).Sub(decimal.RequireFromString(interest)),
			CreatedAt:        time.Now().UTC(),
		}
	}

	// inserted out of order on purpose; reads come back by installment
	for _, r := range []*ledgerDomain.Repayment{mk(1, "499.16"), mk(0, "541.67")} {
		if err := repo.CreateRepayment(ctx, r); err != nil {
			t.Fatalf("CreateRepayment: %v", err)
		}
	}
	if err := repo.CreateRepayment(ctx, mk(1, "499.16")); !errors.Is(err, ledgerDomain.ErrDuplicateRepayment) {
		t.Fatalf("expected ErrDuplicateRepayment, got %v", err)
	}

	got, err := repo.RepaymentsByLoanID(ctx, loanID)
	if err != nil || len(got) != 2 {
		t.Fatalf("RepaymentsByLoanID: n=%d err=%v", len(got), err)
	}
	if got[0].InstallmentIndex != 0 || got[0].InterestPortion.StringFixed(2) != "541.67" {
		t.Fatalf("unexpected first record: %+v", got[0])
	}

	many, err := repo.RepaymentsByLoanIDs(ctx, []string{loanID, id.NewID32()})
	if err != nil || len(many) != 2 {
		t.Fatalf("RepaymentsByLoanIDs: n=%d err=%v", len(many), err)
	}
}

func TestUsers_CreateGetLockSave(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	uid := id.NewID32()
	u := &userDomain.User{UserID: uid, DisplayName: "Sita K.", KYCStatus: userDomain.KYCPending, CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, &userDomain.User{UserID: uid}); !errors.Is(err, userDomain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	locked, err := repo.GetByUserIDForUpdate(ctx, uid)
	if err != nil {
		t.Fatalf("GetByUserIDForUpdate: %v", err)
	}
	locked.KYCStatus = userDomain.KYCVerified
	locked.RewardRepayment()
	if err := repo.Save(ctx, locked); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByUserID(ctx, uid)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if !got.KYCVerified() || got.CreditScore == nil || *got.CreditScore != 620 {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.GetByUserID(ctx, id.NewID32()); !errors.Is(err, userDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, err := repo.ListByUserIDs(ctx, []string{uid})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByUserIDs: n=%d err=%v", len(list), err)
	}
}
