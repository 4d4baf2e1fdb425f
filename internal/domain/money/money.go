// Package money holds the pure loan arithmetic: EMI, fees, net proceeds,
// amortization schedules and late fees. Amounts are whole NPR (int64);
// intermediate math is decimal to avoid float drift.
package money

import (
	"time"

	"github.com/shopspring/decimal"
)

// digits kept for intermediate (1+r)^n and division results.
const workPrecision = 24

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	half    = decimal.NewFromFloat(0.5)
)

// MonthlyRate converts an annual percentage into the monthly fraction r.
func MonthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.DivRound(twelve, workPrecision).DivRound(hundred, workPrecision)
}

// ComputeEMI returns the equated monthly installment rounded half-up to whole NPR.
func ComputeEMI(principal int64, annualRatePercent decimal.Decimal, tenureMonths int) int64 {
	if principal <= 0 || tenureMonths <= 0 {
		return 0
	}
	p := decimal.NewFromInt(principal)
	n := decimal.NewFromInt(int64(tenureMonths))
	r := MonthlyRate(annualRatePercent)
	if r.Sign() <= 0 {
		return p.DivRound(n, 0).IntPart()
	}

	growth := compound(r, tenureMonths)
	emi := p.Mul(r).Mul(growth).DivRound(growth.Sub(decimal.NewFromInt(1)), workPrecision)
	return emi.Round(0).IntPart()
}

// ComputeFees is principal × (platform + insurance) / 100, rounded half-down
// so that principal − fee equals the half-up rounding of the net share.
func ComputeFees(principal int64, platformFeePercent, insuranceFeePercent decimal.Decimal) int64 {
	if principal <= 0 {
		return 0
	}
	fee := decimal.NewFromInt(principal).
		Mul(platformFeePercent.Add(insuranceFeePercent)).
		DivRound(hundred, workPrecision)
	rounded := fee.Sub(half).Ceil()
	if rounded.Sign() < 0 {
		return 0
	}
	return rounded.IntPart()
}

func ComputeNetProceeds(principal, feeAmount int64) int64 { return principal - feeAmount }

// LateFee is the monthly late charge on one overdue installment times the months overdue.
// The engine only quotes it; charging is the collections process's job.
func LateFee(emi int64, lateFeePercent decimal.Decimal, monthsOverdue int) int64 {
	if emi <= 0 || monthsOverdue <= 0 {
		return 0
	}
	return decimal.NewFromInt(emi).
		Mul(lateFeePercent).
		Mul(decimal.NewFromInt(int64(monthsOverdue))).
		DivRound(hundred, 0).
		IntPart()
}

type Installment struct {
	Index     int             `json:"installment_index"`
	DueDate   time.Time       `json:"due_date"`
	Amount    int64           `json:"amount"`
	Principal decimal.Decimal `json:"principal_portion"`
	Interest  decimal.Decimal `json:"interest_portion"`
	Balance   decimal.Decimal `json:"remaining_balance"`
}

// Schedule breaks a frozen EMI into per-month principal and interest (2dp).
// The final installment absorbs rounding so the closing balance is exactly zero
// and the interest portions sum to emi×n − principal.
func Schedule(principal int64, annualRatePercent decimal.Decimal, tenureMonths int, emi int64, start time.Time) []Installment {
	if tenureMonths <= 0 {
		return nil
	}
	r := MonthlyRate(annualRatePercent)
	pay := decimal.NewFromInt(emi)
	balance := decimal.NewFromInt(principal)

	out := make([]Installment, 0, tenureMonths)
	for i := 0; i < tenureMonths; i++ {
		var interest, principalPart decimal.Decimal
		if i == tenureMonths-1 {
			principalPart = balance
			interest = pay.Sub(principalPart)
		} else {
			interest = balance.Mul(r).Round(2)
			principalPart = pay.Sub(interest)
			if principalPart.GreaterThan(balance) {
				principalPart = balance
				interest = pay.Sub(principalPart)
			}
		}
		balance = balance.Sub(principalPart)
		out = append(out, Installment{
			Index:     i,
			DueDate:   start.AddDate(0, i+1, 0),
			Amount:    emi,
			Principal: principalPart,
			Interest:  interest,
			Balance:   balance,
		})
	}
	return out
}

func compound(r decimal.Decimal, n int) decimal.Decimal {
	base := decimal.NewFromInt(1).Add(r)
	acc := decimal.NewFromInt(1)
	for i := 0; i < n; i++ {
		acc = acc.Mul(base).Round(workPrecision)
	}
	return acc
}
