package eligibility

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/policy"
	"artha-lending/internal/domain/user"
)

var (
	pol   = policy.Default()
	alice = strings.Repeat("a", 32)
	bob   = strings.Repeat("b", 32)
)

func verified(role user.Role) Subject {
	return Subject{UserID: alice, KYCStatus: user.KYCVerified, Role: role}
}

func TestCanBorrow(t *testing.T) {
	cases := []struct {
		name   string
		s      Subject
		amount int64
		want   apperr.Reason
	}{
		{"verified, no role, within base limit", verified(user.RoleNone), 50000, ""},
		{"over base limit without bank details", verified(user.RoleNone), 60000, apperr.ReasonLimitExceeded},
		{"bank details raise the limit", Subject{UserID: alice, KYCStatus: user.KYCVerified, BankDetailsAdded: true}, 100000, ""},
		{"over the bank limit", Subject{UserID: alice, KYCStatus: user.KYCVerified, BankDetailsAdded: true}, 100001, apperr.ReasonLimitExceeded},
		{"kyc pending", Subject{UserID: alice, KYCStatus: user.KYCPending}, 1000, apperr.ReasonKYCRequired},
		{"kyc beats role and limit", Subject{UserID: alice, KYCStatus: user.KYCUnverified, Role: user.RoleLender}, 999999, apperr.ReasonKYCRequired},
		{"active lender", verified(user.RoleLender), 1000, apperr.ReasonRoleConflict},
		{"role beats limit", verified(user.RoleLender), 999999, apperr.ReasonRoleConflict},
		{"borrower with only drafts", verified(user.RoleNone), 1000, ""},
		{"borrower with an open loan", Subject{UserID: alice, KYCStatus: user.KYCVerified, Role: user.RoleBorrower, OpenLoans: 1}, 1000, apperr.ReasonLimitExceeded},
		{"open loan beats bank limit", Subject{UserID: alice, KYCStatus: user.KYCVerified, Role: user.RoleBorrower, BankDetailsAdded: true, OpenLoans: 1}, 1, apperr.ReasonLimitExceeded},
		{"kyc beats open loan", Subject{UserID: alice, KYCStatus: user.KYCPending, Role: user.RoleBorrower, OpenLoans: 2}, 1000, apperr.ReasonKYCRequired},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := CanBorrow(pol, c.s, c.amount)
			if c.want == "" {
				assert.True(t, d.Allowed, d.Message)
				assert.NoError(t, d.Err())
				return
			}
			assert.False(t, d.Allowed)
			assert.Equal(t, c.want, d.Reason)
			assert.ErrorIs(t, d.Err(), apperr.ErrEligibility)
			assert.Equal(t, c.want, apperr.ReasonOf(d.Err()))
		})
	}
}

func TestCanLend(t *testing.T) {
	near := verified(user.RoleLender)
	near.LendingExposure = 480000

	d := CanLend(pol, near, 50000)
	assert.Equal(t, apperr.ReasonLimitExceeded, d.Reason)

	assert.True(t, CanLend(pol, near, 20000).Allowed)
	assert.Equal(t, apperr.ReasonRoleConflict, CanLend(pol, verified(user.RoleBorrower), 1000).Reason)
	assert.Equal(t, apperr.ReasonKYCRequired, CanLend(pol, Subject{KYCStatus: user.KYCPending}, 1000).Reason)
}

func TestCanFund(t *testing.T) {
	l := &loan.Loan{LoanID: strings.Repeat("1", 32), BorrowerID: alice, State: loan.StateListed}
	l.Principal = 50000

	// funding your own loan is a role conflict even before the role is derived
	assert.Equal(t, apperr.ReasonRoleConflict, CanFund(pol, verified(user.RoleNone), l).Reason)

	other := Subject{UserID: bob, KYCStatus: user.KYCVerified, Role: user.RoleNone}
	assert.True(t, CanFund(pol, other, l).Allowed)

	other.Role = user.RoleBorrower
	assert.Equal(t, apperr.ReasonRoleConflict, CanFund(pol, other, l).Reason)

	other.Role = user.RoleLender
	other.LendingExposure = 480000
	assert.Equal(t, apperr.ReasonLimitExceeded, CanFund(pol, other, l).Reason)

	assert.Equal(t, apperr.ReasonKYCRequired, CanFund(pol, Subject{UserID: alice}, l).Reason)
}

func TestCanRequestLoan(t *testing.T) {
	assert.True(t, CanRequestLoan(pol, verified(user.RoleNone)).Allowed)
	assert.Equal(t, apperr.ReasonRoleConflict, CanRequestLoan(pol, verified(user.RoleLender)).Reason)
	assert.Equal(t, apperr.ReasonKYCRequired, CanRequestLoan(pol, Subject{KYCStatus: user.KYCUnverified}).Reason)
}

func TestCheckTenure(t *testing.T) {
	assert.True(t, CheckTenure(pol, 18).Allowed)
	d := CheckTenure(pol, 9)
	assert.Equal(t, apperr.ReasonInvalidTenure, d.Reason)
	assert.Contains(t, d.Message, "9 months")
}

func TestDeriveRole_MutuallyExclusiveViews(t *testing.T) {
	own := func(states ...loan.State) []loan.Loan {
		out := make([]loan.Loan, 0, len(states))
		for _, s := range states {
			out = append(out, loan.Loan{BorrowerID: alice, State: s})
		}
		return out
	}

	assert.Equal(t, user.RoleNone, DeriveRole(nil, nil))
	assert.Equal(t, user.RoleNone, DeriveRole(own(loan.StateDraft, loan.StateClosed, loan.StateWithdrawn), nil))
	assert.Equal(t, user.RoleBorrower, DeriveRole(own(loan.StateAwaitingSignature), nil))
	assert.Equal(t, user.RoleBorrower, DeriveRole(own(loan.StateActive), nil))
	assert.Equal(t, user.RoleLender, DeriveRole(nil, own(loan.StateActive)))
	assert.Equal(t, user.RoleNone, DeriveRole(nil, own(loan.StateClosed, loan.StateDefaulted)))
}

func TestNewSubject(t *testing.T) {
	u := &user.User{UserID: bob, KYCStatus: user.KYCVerified, BankDetailsAdded: true}
	funded := []loan.Loan{
		{LoanID: "l1", BorrowerID: alice, State: loan.StateActive},
		{LoanID: "l2", BorrowerID: alice, State: loan.StateClosed},
	}
	fundings := []ledger.Funding{
		{LoanID: "l1", LenderID: bob, Amount: 40000},
		{LoanID: "l2", LenderID: bob, Amount: 30000},
	}

	s := NewSubject(u, nil, fundings, funded)
	assert.Equal(t, user.RoleLender, s.Role)
	assert.Equal(t, int64(40000), s.LendingExposure)
	assert.Equal(t, int64(100000), BorrowLimit(pol, s))
	assert.Zero(t, s.OpenLoans)
}

func TestNewSubject_CountsCommittedOwnLoans(t *testing.T) {
	u := &user.User{UserID: alice, KYCStatus: user.KYCVerified}
	own := []loan.Loan{
		{LoanID: "d1", BorrowerID: alice, State: loan.StateDraft},
		{LoanID: "a1", BorrowerID: alice, State: loan.StateAwaitingSignature},
		{LoanID: "x1", BorrowerID: alice, State: loan.StateActive},
		{LoanID: "c1", BorrowerID: alice, State: loan.StateClosed},
		{LoanID: "w1", BorrowerID: alice, State: loan.StateWithdrawn},
	}

	s := NewSubject(u, own, nil, nil)
	assert.Equal(t, 2, s.OpenLoans)
	assert.Equal(t, user.RoleBorrower, s.Role)
	assert.Equal(t, apperr.ReasonLimitExceeded, CanBorrow(pol, s, 1000).Reason)

	drafts := NewSubject(u, own[:1], nil, nil)
	assert.True(t, CanBorrow(pol, drafts, 1000).Allowed)
}
