package loan

import (
	"time"

	"github.com/shopspring/decimal"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/money"
	"artha-lending/internal/domain/policy"
)

var (
	ErrNotFound          = apperr.NotFound("loan not found")
	ErrAlreadyExists     = apperr.Conflict("loan id already taken")
	ErrInvalidTransition = apperr.InvalidState("invalid loan state transition")
	ErrVersionConflict   = apperr.Conflict("loan was modified concurrently")
	ErrNotBorrower       = apperr.Denied(apperr.ReasonRoleConflict, "only the borrower may act on this loan")
)

type Guarantor struct {
	Name          string `gorm:"size:128" json:"name,omitempty"`
	Phone         string `gorm:"size:32" json:"phone,omitempty"`
	Relation      string `gorm:"size:64" json:"relation,omitempty"`
	IDDocumentRef string `gorm:"size:255" json:"id_document_ref,omitempty"`
}

func (g Guarantor) Present() bool { return g.Name != "" && g.Phone != "" }

// Terms are priced once at creation and never recomputed.
type Terms struct {
	Principal           int64           `json:"principal"`
	TenureMonths        int             `json:"tenure_months"`
	InterestRateAnnual  decimal.Decimal `gorm:"type:decimal(6,3)" json:"interest_rate_annual"`
	PlatformFeePercent  decimal.Decimal `gorm:"type:decimal(6,3)" json:"platform_fee_percent"`
	InsuranceFeePercent decimal.Decimal `gorm:"type:decimal(6,3)" json:"insurance_fee_percent"`
	LateFeePercent      decimal.Decimal `gorm:"type:decimal(6,3)" json:"late_fee_percent"`
	EMIAmount           int64           `gorm:"column:emi_amount" json:"emi_amount"`
	FeeAmount           int64           `json:"fee_amount"`
	NetProceeds         int64           `json:"net_proceeds"`
}

func TermsFromQuote(q policy.Quote) Terms {
	return Terms{
		Principal:           q.Principal,
		TenureMonths:        q.TenureMonths,
		InterestRateAnnual:  q.InterestRateAnnual,
		PlatformFeePercent:  q.PlatformFeePercent,
		InsuranceFeePercent: q.InsuranceFeePercent,
		LateFeePercent:      q.LateFeePercent,
		EMIAmount:           q.EMIAmount,
		FeeAmount:           q.FeeAmount,
		NetProceeds:         q.NetProceeds,
	}
}

type Loan struct {
	ID         uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID     string `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID string `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	Purpose    string `gorm:"type:text" json:"purpose"`

	Terms     `gorm:"embedded"`
	Guarantor Guarantor `gorm:"embedded;embeddedPrefix:guarantor_" json:"guarantor"`

	SignedAgreementRef string `gorm:"size:255" json:"signed_agreement_ref,omitempty"`
	VideoStatementRef  string `gorm:"size:255" json:"video_statement_ref,omitempty"`

	State        State  `gorm:"size:24;index:idx_loans_state" json:"state"`
	LenderID     string `gorm:"size:32;index:idx_loans_lender" json:"lender_id,omitempty"`
	FundedAmount int64  `json:"funded_amount"`
	// cache of the ledger's repayment count, rewritten from the ledger on every repay
	PaidEMICount int    `gorm:"column:paid_emi_count" json:"paid_emi_count"`
	StateNote    string `gorm:"size:255" json:"state_note,omitempty"`

	ListedAt       *time.Time `json:"listed_at,omitempty"`
	FundedAt       *time.Time `json:"funded_at,omitempty"`
	DisbursedAt    *time.Time `json:"disbursed_at,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	StateUpdatedAt time.Time  `json:"state_updated_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`

	Version int64 `gorm:"not null;default:0" json:"version"`
}

func (Loan) TableName() string { return "loans" }

// New prices a draft; the caller has already run validation and eligibility.
func New(loanID, borrowerID, purpose string, g Guarantor, terms Terms, at time.Time) (*Loan, Transition) {
	l := &Loan{
		LoanID:         loanID,
		BorrowerID:     borrowerID,
		Purpose:        purpose,
		Terms:          terms,
		Guarantor:      g,
		State:          StateDraft,
		StateUpdatedAt: at,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	return l, Transition{LoanID: loanID, From: "", To: StateDraft, Action: ActionCreate, OccurredAt: at}
}

func (l *Loan) ScheduledTotal() int64 { return l.EMIAmount * int64(l.TenureMonths) }

func (l *Loan) RemainingInstallments() int { return l.TenureMonths - l.PaidEMICount }

// Schedule is the repayment plan counted from disbursement (or creation for
// loans that have not been disbursed yet, as a projection).
func (l *Loan) Schedule() []money.Installment {
	start := l.CreatedAt
	if l.DisbursedAt != nil {
		start = *l.DisbursedAt
	}
	return money.Schedule(l.Principal, l.InterestRateAnnual, l.TenureMonths, l.EMIAmount, start)
}

// DueInstallments counts installments whose due date is on or before asOf.
func (l *Loan) DueInstallments(asOf time.Time) int {
	if l.DisbursedAt == nil {
		return 0
	}
	due := 0
	for due < l.TenureMonths && !l.DisbursedAt.AddDate(0, due+1, 0).After(asOf) {
		due++
	}
	return due
}

// MaturityDate is the last installment's due date.
func (l *Loan) MaturityDate() *time.Time {
	if l.DisbursedAt == nil {
		return nil
	}
	d := l.DisbursedAt.AddDate(0, l.TenureMonths, 0)
	return &d
}
