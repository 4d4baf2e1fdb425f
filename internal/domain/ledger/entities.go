package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"artha-lending/internal/domain/apperr"
)

var (
	ErrFundingNotFound    = apperr.NotFound("funding not found")
	ErrDuplicateFunding   = apperr.Conflict("loan already has a funding transaction")
	ErrDuplicateRepayment = apperr.Conflict("installment already recorded")
)

// Funding is the single, immutable full-principal funding of a loan.
type Funding struct {
	ID                uint64    `gorm:"primaryKey;column:id" json:"-"`
	FundingID         string    `gorm:"size:32;uniqueIndex:ux_fundings_funding_id" json:"funding_id"`
	LoanID            string    `gorm:"size:32;uniqueIndex:ux_fundings_loan_id" json:"loan_id"`
	LenderID          string    `gorm:"size:32;index:idx_fundings_lender" json:"lender_id"`
	Amount            int64     `json:"amount"`
	ExternalReference string    `gorm:"size:64" json:"external_reference"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Funding) TableName() string { return "funding_transactions" }

// Repayment is one installment. A multi-installment payment produces one row per installment.
type Repayment struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	RepaymentID       string          `gorm:"size:32;uniqueIndex:ux_repayments_repayment_id" json:"repayment_id"`
	LoanID            string          `gorm:"size:32;uniqueIndex:ux_repayments_loan_installment,priority:1" json:"loan_id"`
	InstallmentIndex  int             `gorm:"uniqueIndex:ux_repayments_loan_installment,priority:2" json:"installment_index"`
	PayerID           string          `gorm:"size:32" json:"payer_id"`
	Amount            int64           `json:"amount"`
	PrincipalPortion  decimal.Decimal `gorm:"type:decimal(18,2)" json:"principal_portion"`
	InterestPortion   decimal.Decimal `gorm:"type:decimal(18,2)" json:"interest_portion"`
	ExternalReference string          `gorm:"size:64" json:"external_reference"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (Repayment) TableName() string { return "repayment_records" }
