package user

import (
	"time"

	"artha-lending/internal/domain/apperr"
)

var (
	ErrNotFound      = apperr.NotFound("user not found")
	ErrAlreadyExists = apperr.Conflict("user already registered")
)

type KYCStatus string

const (
	KYCUnverified KYCStatus = "unverified"
	KYCPending    KYCStatus = "pending"
	KYCVerified   KYCStatus = "verified"
)

func (s KYCStatus) Valid() bool {
	switch s {
	case KYCUnverified, KYCPending, KYCVerified:
		return true
	}
	return false
}

// Role is derived from the ledger and loan table on every read; it is never stored.
type Role string

const (
	RoleNone     Role = "none"
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
)

const (
	InitialCreditScore = 600
	MaxCreditScore     = 850
	MinCreditScore     = 300
	RepaymentReward    = 20
)

// User holds the facts the collaborators (identity/KYC, bank onboarding, credit bureau)
// publish about a person. Running totals are folded from the ledger, not kept here.
type User struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID           string    `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	DisplayName      string    `gorm:"size:128" json:"display_name"`
	KYCStatus        KYCStatus `gorm:"size:16;default:unverified" json:"kyc_status"`
	BankDetailsAdded bool      `json:"bank_details_added"`
	CreditScore      *int      `json:"credit_score,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) KYCVerified() bool { return u.KYCStatus == KYCVerified }

// RewardRepayment bumps the credit score after a loan is fully repaid.
func (u *User) RewardRepayment() int {
	score := InitialCreditScore
	if u.CreditScore != nil {
		score = *u.CreditScore
	}
	score = min(score+RepaymentReward, MaxCreditScore)
	u.CreditScore = &score
	return score
}
