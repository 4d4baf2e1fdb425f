package user

import (
	"artha-lending/internal/domain/eligibility"
	"artha-lending/internal/domain/user"
)

type RegisterInput struct {
	UserID      string
	DisplayName string
	KYCStatus   user.KYCStatus
}

// EligibilityDTO answers "could this user borrow or lend amount right now"
// without changing anything.
type EligibilityDTO struct {
	Subject         eligibility.Subject  `json:"user"`
	Amount          int64                `json:"amount"`
	BorrowLimit     int64                `json:"borrow_limit"`
	LendingHeadroom int64                `json:"lending_headroom"`
	CanRequestLoan  eligibility.Decision `json:"can_request_loan"`
	CanBorrow       eligibility.Decision `json:"can_borrow"`
	CanLend         eligibility.Decision `json:"can_lend"`
}
