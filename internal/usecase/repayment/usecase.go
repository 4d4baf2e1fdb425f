package repayment

import (
	"context"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/payment"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/usecase/guard"
	"artha-lending/pkg/clock"
	"artha-lending/pkg/id"

	"go.uber.org/zap"
)

type Usecase struct {
	uow     uow.UnitOfWork
	gateway payment.Gateway
	clock   clock.Clock
	log     *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, gw payment.Gateway, c clock.Clock, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, gateway: gw, clock: c, log: log}
}

// Repay records installments strictly in order. The ledger's record count is
// the source of truth for the next payable index; the loan's paid counter is
// rewritten from it.
func (u *Usecase) Repay(ctx context.Context, in RepayInput) (*RepaymentDTO, error) {
	if in.PayerID == "" {
		return nil, apperr.Validation("payer_id is required")
	}
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if in.InstallmentIndex < 0 {
		return nil, apperr.Validation("installment_index must not be negative")
	}

	var (
		out *RepaymentDTO
		trs []loan.Transition
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.State.Can(loan.ActionRepay) {
			return apperr.InvalidState("loan %s is %s, not ACTIVE", l.LoanID, l.State)
		}
		if in.PayerID != l.BorrowerID {
			return loan.ErrNotBorrower
		}

		recorded, err := r.Ledger.RepaymentsByLoanID(ctx, l.LoanID)
		if err != nil {
			return err
		}
		l.PaidEMICount = ledger.PaidInstallments(recorded)

		if in.InstallmentIndex != l.PaidEMICount {
			return apperr.Validation("installment %d is not payable; next installment is %d", in.InstallmentIndex, l.PaidEMICount)
		}
		if l.EMIAmount <= 0 {
			return apperr.InvalidState("loan %s has no installment amount", l.LoanID)
		}
		if in.Amount%l.EMIAmount != 0 {
			return apperr.Validation("amount %d is not a whole number of installments of %d", in.Amount, l.EMIAmount)
		}
		count := int(in.Amount / l.EMIAmount)
		if count > l.RemainingInstallments() {
			return apperr.Validation("amount covers %d installments but only %d remain", count, l.RemainingInstallments())
		}

		ref, err := guard.Pay(ctx, u.gateway, u.log, payment.Request{
			LoanID:  l.LoanID,
			PayerID: l.BorrowerID,
			PayeeID: l.LenderID,
			Amount:  in.Amount,
			Purpose: payment.PurposeRepayment,
		})
		if err != nil {
			return err
		}

		now := u.clock.Now()
		schedule := l.Schedule()
		records := make([]ledger.Repayment, 0, count)
		for idx := in.InstallmentIndex; idx < in.InstallmentIndex+count; idx++ {
			tr, err := l.RecordInstallment(idx, now)
			if err != nil {
				return err
			}
			rec := ledger.Repayment{
				RepaymentID:       id.NewID32(),
				LoanID:            l.LoanID,
				InstallmentIndex:  idx,
				PayerID:           l.BorrowerID,
				Amount:            l.EMIAmount,
				PrincipalPortion:  schedule[idx].Principal,
				InterestPortion:   schedule[idx].Interest,
				ExternalReference: ref,
				CreatedAt:         now,
			}
			if err := r.Ledger.CreateRepayment(ctx, &rec); err != nil {
				return err
			}
			tr.ActorID = l.BorrowerID
			if err := r.Transitions.Append(ctx, &tr); err != nil {
				return err
			}
			records = append(records, rec)
			trs = append(trs, tr)
		}

		out = &RepaymentDTO{Records: records, Loan: l, Closed: l.State == loan.StateClosed}
		if out.Closed {
			borrower, err := r.Users.GetByUserIDForUpdate(ctx, l.BorrowerID)
			if err != nil {
				return err
			}
			score := borrower.RewardRepayment()
			if err := r.Users.Save(ctx, borrower); err != nil {
				return err
			}
			out.BorrowerCreditScore = &score
		}
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	guard.LogTransitions(u.log, trs...)
	return out, nil
}

func (u *Usecase) History(ctx context.Context, loanID string) (*HistoryDTO, error) {
	var out *HistoryDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		rs, err := r.Ledger.RepaymentsByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		if rs == nil {
			rs = []ledger.Repayment{}
		}
		out = &HistoryDTO{
			LoanID:       l.LoanID,
			PaidEMICount: ledger.PaidInstallments(rs),
			TotalRepaid:  ledger.TotalRepaid(rs),
			Outstanding:  ledger.Outstanding(*l, rs),
			Records:      rs,
		}
		return nil
	})
	return out, err
}
