package collections

import (
	"cmp"
	"context"
	"slices"
	"time"

	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/money"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/usecase/guard"
	"artha-lending/pkg/clock"

	"go.uber.org/zap"
)

type Usecase struct {
	uow   uow.UnitOfWork
	clock clock.Clock
	log   *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, c clock.Clock, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, clock: c, log: log}
}

// MarkDefault applies the collections process's irrecoverable-loss signal.
func (u *Usecase) MarkDefault(ctx context.Context, in DefaultInput) (*loan.Loan, error) {
	var (
		out *loan.Loan
		tr  loan.Transition
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		var err error
		if tr, err = l.MarkDefaulted(in.Note, u.clock.Now()); err != nil {
			return err
		}
		tr.ActorID = in.ActorID
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return r.Transitions.Append(ctx, &tr)
	})
	if err != nil {
		return nil, err
	}
	guard.LogTransitions(u.log, tr)
	return out, nil
}

// Overdue lists ACTIVE loans with unpaid installments past their due date,
// most overdue first. A zero asOf means now.
func (u *Usecase) Overdue(ctx context.Context, asOf time.Time) ([]OverdueDTO, error) {
	if asOf.IsZero() {
		asOf = u.clock.Now()
	}
	out := []OverdueDTO{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		active, err := r.Loans.ListByStates(ctx, loan.StateActive)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(active))
		for _, l := range active {
			ids = append(ids, l.LoanID)
		}
		rs, err := r.Ledger.RepaymentsByLoanIDs(ctx, ids)
		if err != nil {
			return err
		}
		byLoan := make(map[string][]ledger.Repayment, len(ids))
		for _, rep := range rs {
			byLoan[rep.LoanID] = append(byLoan[rep.LoanID], rep)
		}

		for _, l := range active {
			if dto, ok := overdue(l, byLoan[l.LoanID], asOf); ok {
				out = append(out, dto)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b OverdueDTO) int {
		if c := cmp.Compare(b.OverdueInstallments, a.OverdueInstallments); c != 0 {
			return c
		}
		return cmp.Compare(a.LoanID, b.LoanID)
	})
	return out, nil
}

func overdue(l loan.Loan, rs []ledger.Repayment, asOf time.Time) (OverdueDTO, bool) {
	paid := ledger.PaidInstallments(rs)
	due := l.DueInstallments(asOf)
	if due <= paid {
		return OverdueDTO{}, false
	}
	var lateFee int64
	for idx := paid; idx < due; idx++ {
		// installment idx has been late for (due - idx) started months
		lateFee += money.LateFee(l.EMIAmount, l.LateFeePercent, due-idx)
	}
	maturity := l.MaturityDate()
	return OverdueDTO{
		LoanID:              l.LoanID,
		BorrowerID:          l.BorrowerID,
		LenderID:            l.LenderID,
		EMIAmount:           l.EMIAmount,
		PaidEMICount:        paid,
		DueInstallments:     due,
		OverdueInstallments: due - paid,
		OverdueAmount:       int64(due-paid) * l.EMIAmount,
		LateFeeQuote:        lateFee,
		OldestDueDate:       l.DisbursedAt.AddDate(0, paid+1, 0),
		DefaultCandidate:    maturity != nil && asOf.After(*maturity),
		AsOf:                asOf,
	}, true
}
