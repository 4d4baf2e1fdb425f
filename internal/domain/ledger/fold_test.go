package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"artha-lending/internal/domain/loan"
)

const (
	alice = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob   = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func mkLoan(id, borrowerID string, state loan.State, principal, emi int64, tenure int, created time.Time) loan.Loan {
	l := loan.Loan{LoanID: id, BorrowerID: borrowerID, State: state, CreatedAt: created}
	l.Principal = principal
	l.EMIAmount = emi
	l.TenureMonths = tenure
	if state.Invested() || state == loan.StateClosed || state == loan.StateDefaulted {
		d := created
		l.DisbursedAt = &d
	}
	return l
}

func rep(loanID string, idx int, amount int64, interest string) Repayment {
	return Repayment{LoanID: loanID, InstallmentIndex: idx, Amount: amount, InterestPortion: decimal.RequireFromString(interest)}
}

func TestFoldPortfolio_LenderAndBorrowerViews(t *testing.T) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	loans := []loan.Loan{
		mkLoan("L1", alice, loan.StateActive, 50000, 4466, 12, day),
		mkLoan("L2", alice, loan.StateClosed, 10000, 1735, 6, day.Add(-time.Hour)),
	}
	fundings := []Funding{
		{LoanID: "L1", LenderID: bob, Amount: 50000},
		{LoanID: "L2", LenderID: bob, Amount: 10000},
	}
	repayments := []Repayment{
		rep("L1", 0, 4466, "541.67"),
		rep("L1", 1, 4466, "499.16"),
		rep("L2", 0, 1735, "108.33"),
	}

	lender := FoldPortfolio(bob, loans, fundings, repayments)
	assert.Equal(t, int64(60000), lender.TotalLended)
	assert.Equal(t, int64(50000), lender.ActiveExposure)
	assert.Equal(t, int64(4466*2+1735), lender.TotalReceived)
	assert.Equal(t, "1149.16", lender.InterestEarned.StringFixed(2))
	assert.Len(t, lender.Investments, 2)
	assert.Empty(t, lender.Borrowings)
	assert.Equal(t, "L2", lender.Investments[0].LoanID, "ordered by creation time")
	assert.Equal(t, alice, lender.Investments[0].Counterparty)

	borrower := FoldPortfolio(alice, loans, fundings, repayments)
	assert.Equal(t, int64(60000), borrower.TotalBorrowed)
	assert.Equal(t, int64(0), borrower.TotalLended)
	assert.Equal(t, 3, borrower.PaidEMICount)
	assert.Equal(t, "1149.16", borrower.InterestPaid.StringFixed(2))
	assert.Len(t, borrower.Borrowings, 2)

	l1 := borrower.Borrowings[1]
	assert.Equal(t, 2, l1.PaidEMICount)
	assert.Equal(t, int64(4466*12-4466*2), l1.Outstanding)
	assert.Equal(t, int64(0), borrower.Borrowings[0].Outstanding, "closed loans owe nothing")
}

func TestFoldPortfolio_Empty(t *testing.T) {
	p := FoldPortfolio(alice, nil, nil, nil)
	assert.Equal(t, alice, p.UserID)
	assert.True(t, p.InterestEarned.IsZero())
	assert.NotNil(t, p.Borrowings)
	assert.NotNil(t, p.Investments)
}

func TestLendingExposure_OnlyInvestedLoans(t *testing.T) {
	byID := map[string]loan.Loan{
		"L1": {LoanID: "L1", State: loan.StateFunded},
		"L2": {LoanID: "L2", State: loan.StateActive},
		"L3": {LoanID: "L3", State: loan.StateClosed},
		"L4": {LoanID: "L4", State: loan.StateDefaulted},
	}
	fs := []Funding{{LoanID: "L1", Amount: 1}, {LoanID: "L2", Amount: 10}, {LoanID: "L3", Amount: 100}, {LoanID: "L4", Amount: 1000}, {LoanID: "missing", Amount: 5}}
	assert.Equal(t, int64(11), LendingExposure(fs, byID))
}

func TestTotalsHelpers(t *testing.T) {
	rs := []Repayment{rep("L", 0, 100, "1.50"), rep("L", 1, 100, "0.75")}
	assert.Equal(t, 2, PaidInstallments(rs))
	assert.Equal(t, int64(200), TotalRepaid(rs))
	assert.Equal(t, "2.25", InterestOf(rs).StringFixed(2))
}
