package ledger

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/user"
)

// PaidInstallments is the authoritative paidEmiCount for one loan's records.
func PaidInstallments(rs []Repayment) int { return len(rs) }

func TotalRepaid(rs []Repayment) int64 {
	var sum int64
	for _, r := range rs {
		sum += r.Amount
	}
	return sum
}

func InterestOf(rs []Repayment) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rs {
		sum = sum.Add(r.InterestPortion)
	}
	return sum
}

// Outstanding is what the borrower still owes on a disbursed loan.
func Outstanding(l loan.Loan, rs []Repayment) int64 {
	if l.DisbursedAt == nil || l.State == loan.StateClosed {
		return 0
	}
	return max(l.ScheduledTotal()-TotalRepaid(rs), 0)
}

// LendingExposure sums fundings whose loans still have the lender's money out.
func LendingExposure(fundings []Funding, loansByID map[string]loan.Loan) int64 {
	var sum int64
	for _, f := range fundings {
		if l, ok := loansByID[f.LoanID]; ok && l.State.Invested() {
			sum += f.Amount
		}
	}
	return sum
}

type Position struct {
	LoanID       string          `json:"loan_id"`
	State        loan.State      `json:"state"`
	Counterparty string          `json:"counterparty_id,omitempty"`
	Principal    int64           `json:"principal"`
	TenureMonths int             `json:"tenure_months"`
	EMIAmount    int64           `json:"emi_amount"`
	PaidEMICount int             `json:"paid_emi_count"`
	TotalRepaid  int64           `json:"total_repaid"`
	Outstanding  int64           `json:"outstanding"`
	Interest     decimal.Decimal `json:"interest"`
}

type Portfolio struct {
	UserID         string          `json:"user_id"`
	Role           user.Role       `json:"active_role"`
	TotalLended    int64           `json:"total_lended"`
	TotalBorrowed  int64           `json:"total_borrowed"`
	ActiveExposure int64           `json:"active_exposure"`
	TotalReceived  int64           `json:"total_received"`
	TotalRepaid    int64           `json:"total_repaid"`
	InterestEarned decimal.Decimal `json:"interest_earned"`
	InterestPaid   decimal.Decimal `json:"interest_paid"`
	PaidEMICount   int             `json:"paid_emi_count"`
	Borrowings     []Position      `json:"borrowings"`
	Investments    []Position      `json:"investments"`
}

// FoldPortfolio recomputes a user's totals from the ledger and loan rows.
// loans must include the user's own loans and every loan they funded.
func FoldPortfolio(userID string, loans []loan.Loan, fundings []Funding, repayments []Repayment) Portfolio {
	byLoan := make(map[string][]Repayment)
	for _, r := range repayments {
		byLoan[r.LoanID] = append(byLoan[r.LoanID], r)
	}
	fundingOf := make(map[string]Funding, len(fundings))
	for _, f := range fundings {
		fundingOf[f.LoanID] = f
	}

	p := Portfolio{
		UserID:         userID,
		Role:           user.RoleNone,
		InterestEarned: decimal.Zero,
		InterestPaid:   decimal.Zero,
		Borrowings:     []Position{},
		Investments:    []Position{},
	}

	sorted := slices.Clone(loans)
	slices.SortFunc(sorted, func(a, b loan.Loan) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.LoanID, b.LoanID)
	})

	for _, l := range sorted {
		rs := byLoan[l.LoanID]
		pos := Position{
			LoanID:       l.LoanID,
			State:        l.State,
			Principal:    l.Principal,
			TenureMonths: l.TenureMonths,
			EMIAmount:    l.EMIAmount,
			PaidEMICount: PaidInstallments(rs),
			TotalRepaid:  TotalRepaid(rs),
			Outstanding:  Outstanding(l, rs),
			Interest:     InterestOf(rs),
		}
		f, funded := fundingOf[l.LoanID]

		if funded && f.LenderID == userID {
			pos.Counterparty = l.BorrowerID
			p.TotalLended += f.Amount
			p.TotalReceived += pos.TotalRepaid
			p.InterestEarned = p.InterestEarned.Add(pos.Interest)
			if l.State.Invested() {
				p.ActiveExposure += f.Amount
			}
			p.Investments = append(p.Investments, pos)
		}
		if l.BorrowerID == userID {
			if funded {
				pos.Counterparty = f.LenderID
				p.TotalBorrowed += f.Amount
			}
			p.TotalRepaid += pos.TotalRepaid
			p.InterestPaid = p.InterestPaid.Add(pos.Interest)
			p.PaidEMICount += pos.PaidEMICount
			p.Borrowings = append(p.Borrowings, pos)
		}
	}
	return p
}
