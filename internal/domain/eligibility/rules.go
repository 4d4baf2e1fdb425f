// Package eligibility holds the stateless guards evaluated before any
// money-moving transition. Checks run KYC, then role, then limit, so every
// denial carries exactly one reason.
package eligibility

import (
	"fmt"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/policy"
	"artha-lending/internal/domain/user"
)

type Decision struct {
	Allowed bool          `json:"allowed"`
	Reason  apperr.Reason `json:"reason,omitempty"`
	Message string        `json:"message,omitempty"`
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason apperr.Reason, format string, args ...any) Decision {
	return Decision{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Err is nil when allowed, otherwise an EligibilityDenied error with the reason.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.Denied(d.Reason, d.Message)
}

// Subject is a point-in-time view of a user, built inside the same
// transaction as the operation it guards.
type Subject struct {
	UserID           string         `json:"user_id"`
	KYCStatus        user.KYCStatus `json:"kyc_status"`
	Role             user.Role      `json:"active_role"`
	BankDetailsAdded bool           `json:"bank_details_added"`
	LendingExposure  int64          `json:"lending_exposure"`
	OpenLoans        int            `json:"open_loans"`
}

// NewSubject derives role, exposure and open loan count from the user's own
// loans, the fundings they made, and the loans those fundings point at.
func NewSubject(u *user.User, ownLoans []loan.Loan, fundings []ledger.Funding, fundedLoans []loan.Loan) Subject {
	byID := make(map[string]loan.Loan, len(fundedLoans))
	for _, l := range fundedLoans {
		byID[l.LoanID] = l
	}
	open := 0
	for _, l := range ownLoans {
		if l.State.Committed() {
			open++
		}
	}
	return Subject{
		UserID:           u.UserID,
		KYCStatus:        u.KYCStatus,
		Role:             DeriveRole(ownLoans, fundedLoans),
		BankDetailsAdded: u.BankDetailsAdded,
		LendingExposure:  ledger.LendingExposure(fundings, byID),
		OpenLoans:        open,
	}
}

// DeriveRole: borrower while any own loan is committed (AWAITING_SIGNATURE
// through ACTIVE), lender while any funded loan is FUNDED or ACTIVE.
func DeriveRole(ownLoans, fundedLoans []loan.Loan) user.Role {
	for _, l := range ownLoans {
		if l.State.Committed() {
			return user.RoleBorrower
		}
	}
	for _, l := range fundedLoans {
		if l.State.Invested() {
			return user.RoleLender
		}
	}
	return user.RoleNone
}

func BorrowLimit(p policy.Policy, s Subject) int64 {
	if s.BankDetailsAdded {
		return p.BankBorrowLimit
	}
	return p.BaseBorrowLimit
}

func CanRequestLoan(_ policy.Policy, s Subject) Decision {
	if s.KYCStatus != user.KYCVerified {
		return Deny(apperr.ReasonKYCRequired, "KYC must be verified before requesting a loan (status %s)", s.KYCStatus)
	}
	if s.Role == user.RoleLender {
		return Deny(apperr.ReasonRoleConflict, "an active lender cannot borrow")
	}
	return Allow()
}

// CanBorrow allows at most one committed loan per borrower; drafts do not count.
func CanBorrow(p policy.Policy, s Subject, amount int64) Decision {
	if d := CanRequestLoan(p, s); !d.Allowed {
		return d
	}
	if s.OpenLoans > 0 {
		return Deny(apperr.ReasonLimitExceeded, "borrower already has %d open loan(s)", s.OpenLoans)
	}
	if limit := BorrowLimit(p, s); amount > limit {
		return Deny(apperr.ReasonLimitExceeded, "principal %d exceeds borrow limit %d", amount, limit)
	}
	return Allow()
}

func CanLend(p policy.Policy, s Subject, amount int64) Decision {
	if s.KYCStatus != user.KYCVerified {
		return Deny(apperr.ReasonKYCRequired, "KYC must be verified before lending (status %s)", s.KYCStatus)
	}
	if s.Role == user.RoleBorrower {
		return Deny(apperr.ReasonRoleConflict, "an active borrower cannot lend")
	}
	if s.LendingExposure+amount > p.LendingLimit {
		return Deny(apperr.ReasonLimitExceeded, "lending %d on top of %d exceeds lending limit %d", amount, s.LendingExposure, p.LendingLimit)
	}
	return Allow()
}

// CanFund adds the self-funding rule to CanLend for a specific loan.
func CanFund(p policy.Policy, s Subject, l *loan.Loan) Decision {
	if s.KYCStatus != user.KYCVerified {
		return CanLend(p, s, l.Principal)
	}
	if l.BorrowerID == s.UserID {
		return Deny(apperr.ReasonRoleConflict, "borrowers cannot fund their own loan")
	}
	return CanLend(p, s, l.Principal)
}

func CheckTenure(p policy.Policy, months int) Decision {
	if !p.TenureAllowed(months) {
		return Deny(apperr.ReasonInvalidTenure, "tenure %d months is not one of %v", months, p.AllowedTenures)
	}
	return Allow()
}
