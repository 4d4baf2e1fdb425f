package policy

import (
	"slices"

	"github.com/shopspring/decimal"

	"artha-lending/internal/domain/money"
)

// Policy is the set of platform constants that loans are priced and gated with.
// A loan copies the rates it was created under; changing a Policy never
// touches existing loans.
type Policy struct {
	InterestRateAnnual  decimal.Decimal
	PlatformFeePercent  decimal.Decimal
	InsuranceFeePercent decimal.Decimal
	LateFeePercent      decimal.Decimal

	MinPrincipal       int64
	BaseBorrowLimit    int64
	BankBorrowLimit    int64
	LendingLimit       int64
	GuarantorThreshold int64

	AllowedTenures []int
}

func Default() Policy {
	return Policy{
		InterestRateAnnual:  decimal.NewFromInt(13),
		PlatformFeePercent:  decimal.NewFromInt(2),
		InsuranceFeePercent: decimal.NewFromInt(1),
		LateFeePercent:      decimal.NewFromFloat(2.5),

		MinPrincipal:       1_000,
		BaseBorrowLimit:    50_000,
		BankBorrowLimit:    100_000,
		LendingLimit:       500_000,
		GuarantorThreshold: 30_000,

		AllowedTenures: []int{6, 12, 18, 24},
	}
}

func (p Policy) TenureAllowed(months int) bool { return slices.Contains(p.AllowedTenures, months) }

func (p Policy) GuarantorRequired(principal int64) bool { return principal > p.GuarantorThreshold }

// Quote prices a prospective loan under this policy.
type Quote struct {
	Principal           int64           `json:"principal"`
	TenureMonths        int             `json:"tenure_months"`
	InterestRateAnnual  decimal.Decimal `json:"interest_rate_annual"`
	PlatformFeePercent  decimal.Decimal `json:"platform_fee_percent"`
	InsuranceFeePercent decimal.Decimal `json:"insurance_fee_percent"`
	LateFeePercent      decimal.Decimal `json:"late_fee_percent"`
	EMIAmount           int64           `json:"emi_amount"`
	FeeAmount           int64           `json:"fee_amount"`
	NetProceeds         int64           `json:"net_proceeds"`
	TotalPayable        int64           `json:"total_payable"`
	TotalInterest       int64           `json:"total_interest"`
}

func (p Policy) Quote(principal int64, tenureMonths int) Quote {
	emi := money.ComputeEMI(principal, p.InterestRateAnnual, tenureMonths)
	fee := money.ComputeFees(principal, p.PlatformFeePercent, p.InsuranceFeePercent)
	total := emi * int64(tenureMonths)
	return Quote{
		Principal:           principal,
		TenureMonths:        tenureMonths,
		InterestRateAnnual:  p.InterestRateAnnual,
		PlatformFeePercent:  p.PlatformFeePercent,
		InsuranceFeePercent: p.InsuranceFeePercent,
		LateFeePercent:      p.LateFeePercent,
		EMIAmount:           emi,
		FeeAmount:           fee,
		NetProceeds:         money.ComputeNetProceeds(principal, fee),
		TotalPayable:        total,
		TotalInterest:       total - principal,
	}
}
