package funding

import (
	"context"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/eligibility"
	"artha-lending/internal/domain/ledger"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/payment"
	"artha-lending/internal/domain/policy"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/usecase/guard"
	"artha-lending/pkg/clock"
	"artha-lending/pkg/id"

	"go.uber.org/zap"
)

// ErrAlreadyFunded is returned to every loser of a funding race.
var ErrAlreadyFunded = &apperr.Error{Kind: apperr.KindConflict, Reason: apperr.ReasonLimitExceeded, Msg: "loan is no longer open for funding"}

type Usecase struct {
	uow     uow.UnitOfWork
	policy  policy.Policy
	gateway payment.Gateway
	clock   clock.Clock
	log     *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, p policy.Policy, gw payment.Gateway, c clock.Clock, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, policy: p, gateway: gw, clock: c, log: log}
}

// Fund moves a LISTED loan to ACTIVE in one transaction: the lender's
// eligibility, the transfer, the funding row, FUNDED and the immediate
// disbursement commit together or not at all.
func (u *Usecase) Fund(ctx context.Context, in FundInput) (*FundingDTO, error) {
	if in.LenderID == "" {
		return nil, apperr.Validation("lender_id is required")
	}
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}

	var (
		out *FundingDTO
		trs []loan.Transition
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if l.LenderID != "" {
			return ErrAlreadyFunded
		}
		if !l.State.Can(loan.ActionFund) {
			return apperr.InvalidState("loan %s is %s, not LISTED", l.LoanID, l.State)
		}
		if in.Amount != l.Principal {
			return apperr.Validation("funding amount %d must equal principal %d", in.Amount, l.Principal)
		}

		lender, err := r.Users.GetByUserIDForUpdate(ctx, in.LenderID)
		if err != nil {
			return err
		}
		s, err := guard.LoadSubject(ctx, r, lender)
		if err != nil {
			return err
		}
		if d := eligibility.CanFund(u.policy, s, l); !d.Allowed {
			u.log.Debug("fund denied", zap.String("loan_id", l.LoanID), zap.String("lender_id", in.LenderID), zap.String("reason", string(d.Reason)))
			return d.Err()
		}

		ref, err := guard.Pay(ctx, u.gateway, u.log, payment.Request{
			LoanID:  l.LoanID,
			PayerID: in.LenderID,
			PayeeID: l.BorrowerID,
			Amount:  in.Amount,
			Purpose: payment.PurposeFunding,
		})
		if err != nil {
			return err
		}

		now := u.clock.Now()
		funded, err := l.Fund(in.LenderID, in.Amount, now)
		if err != nil {
			return err
		}
		disbursed, err := l.Disburse(now)
		if err != nil {
			return err
		}

		f := &ledger.Funding{
			FundingID:         id.NewID32(),
			LoanID:            l.LoanID,
			LenderID:          in.LenderID,
			Amount:            in.Amount,
			ExternalReference: ref,
			CreatedAt:         now,
		}
		if err := r.Ledger.CreateFunding(ctx, f); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		trs = []loan.Transition{funded, disbursed}
		for i := range trs {
			if err := r.Transitions.Append(ctx, &trs[i]); err != nil {
				return err
			}
		}
		out = &FundingDTO{Funding: *f, Loan: l}
		return nil
	})
	if err != nil {
		return nil, err
	}
	guard.LogTransitions(u.log, trs...)
	return out, nil
}

// Eligibility answers whether lenderID could fund loanID right now, without
// moving anything.
func (u *Usecase) Eligibility(ctx context.Context, loanID, lenderID string) (*EligibilityDTO, error) {
	var out *EligibilityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		lender, err := r.Users.GetByUserID(ctx, lenderID)
		if err != nil {
			return err
		}
		s, err := guard.LoadSubject(ctx, r, lender)
		if err != nil {
			return err
		}
		out = &EligibilityDTO{LoanID: l.LoanID, Subject: s, Result: eligibility.CanFund(u.policy, s, l)}
		return nil
	})
	return out, err
}
