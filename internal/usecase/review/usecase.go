package review

import (
	"context"

	domainLoan "artha-lending/internal/domain/loan"
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

// RecordVerification applies the reviewer's verdict: LISTED on pass,
// WITHDRAWN on failure. Accepted from AWAITING_SIGNATURE or UNDER_REVIEW.
func (u *Usecase) RecordVerification(ctx context.Context, in VerificationInput) (*ReviewDTO, error) {
	var (
		dto *ReviewDTO
		tr  domainLoan.Transition
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		now := u.clock.Now()
		var err error
		if in.Passed {
			tr, err = l.PassVerification(now)
		} else {
			tr, err = l.FailVerification(in.Note, now)
		}
		if err != nil {
			return err
		}
		tr.ActorID = in.ReviewerID
		tr.Note = in.Note

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Transitions.Append(ctx, &tr); err != nil {
			return err
		}

		dto = &ReviewDTO{
			LoanID:     l.LoanID,
			State:      l.State,
			Passed:     in.Passed,
			ReviewerID: in.ReviewerID,
			Note:       in.Note,
			ReviewedAt: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	guard.LogTransitions(u.log, tr)
	return dto, nil
}
