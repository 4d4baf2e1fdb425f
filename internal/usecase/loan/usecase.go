package loan

import (
	"context"
	"strings"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/eligibility"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/money"
	"artha-lending/internal/domain/policy"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/usecase/guard"
	"artha-lending/pkg/clock"
	"artha-lending/pkg/id"

	"go.uber.org/zap"
)

type Usecase struct {
	uow    uow.UnitOfWork
	policy policy.Policy
	clock  clock.Clock
	log    *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, p policy.Policy, c clock.Clock, log *zap.Logger) *Usecase {
	return &Usecase{uow: tx, policy: p, clock: c, log: log}
}

// Quote prices a prospective loan without touching state.
func (u *Usecase) Quote(principal int64, tenureMonths int) (policy.Quote, error) {
	if err := u.validateTerms(principal, tenureMonths); err != nil {
		return policy.Quote{}, err
	}
	return u.policy.Quote(principal, tenureMonths), nil
}

func (u *Usecase) validateTerms(principal int64, tenureMonths int) error {
	if principal <= 0 {
		return apperr.Validation("principal must be positive")
	}
	if principal < u.policy.MinPrincipal {
		return apperr.Validation("principal must be at least %d", u.policy.MinPrincipal)
	}
	if d := eligibility.CheckTenure(u.policy, tenureMonths); !d.Allowed {
		return &apperr.Error{Kind: apperr.KindValidation, Reason: d.Reason, Msg: d.Message}
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	in.Purpose = strings.TrimSpace(in.Purpose)
	if in.BorrowerID == "" {
		return nil, apperr.Validation("borrower_id is required")
	}
	if err := u.validateTerms(in.Principal, in.TenureMonths); err != nil {
		return nil, err
	}
	if in.Purpose == "" {
		return nil, apperr.Validation("purpose is required")
	}
	if u.policy.GuarantorRequired(in.Principal) && !in.Guarantor.Present() {
		return nil, apperr.Validation("a guarantor is required above %d", u.policy.GuarantorThreshold)
	}

	var (
		out *loan.Loan
		tr  loan.Transition
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Users.GetByUserIDForUpdate(ctx, in.BorrowerID)
		if err != nil {
			return err
		}
		s, err := guard.LoadSubject(ctx, r, borrower)
		if err != nil {
			return err
		}
		if d := eligibility.CanBorrow(u.policy, s, in.Principal); !d.Allowed {
			u.log.Debug("create denied", zap.String("borrower_id", in.BorrowerID), zap.String("reason", string(d.Reason)))
			return d.Err()
		}

		terms := loan.TermsFromQuote(u.policy.Quote(in.Principal, in.TenureMonths))
		out, tr = loan.New(id.NewID32(), in.BorrowerID, in.Purpose, in.Guarantor, terms, u.clock.Now())
		tr.ActorID = in.BorrowerID
		if err := r.Loans.Create(ctx, out); err != nil {
			return err
		}
		return r.Transitions.Append(ctx, &tr)
	})
	if err != nil {
		return nil, err
	}
	guard.LogTransitions(u.log, tr)
	return toDTO(out), nil
}

// AttachLegalDocs moves a draft to AWAITING_SIGNATURE. The borrower role
// starts here, so eligibility is evaluated again against fresh facts.
func (u *Usecase) AttachLegalDocs(ctx context.Context, in LegalDocsInput) (*LoanDTO, error) {
	if in.ActorID == "" {
		return nil, apperr.Validation("actor_id is required")
	}
	var (
		out *loan.Loan
		tr  loan.Transition
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		if in.ActorID != l.BorrowerID {
			return loan.ErrNotBorrower
		}
		borrower, err := r.Users.GetByUserIDForUpdate(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		s, err := guard.LoadSubject(ctx, r, borrower)
		if err != nil {
			return err
		}
		if d := eligibility.CanBorrow(u.policy, s, l.Principal); !d.Allowed {
			u.log.Debug("legal docs denied", zap.String("loan_id", l.LoanID), zap.String("reason", string(d.Reason)))
			return d.Err()
		}

		tr, err = l.AttachLegalDocs(in.SignedAgreementRef, in.VideoStatementRef, u.clock.Now())
		if err != nil {
			return err
		}
		tr.ActorID = l.BorrowerID
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
	return toDTO(out), nil
}

func (u *Usecase) SubmitForReview(ctx context.Context, loanID, actorID string) (*LoanDTO, error) {
	if actorID == "" {
		return nil, apperr.Validation("actor_id is required")
	}
	return u.transition(ctx, loanID, func(l *loan.Loan) (loan.Transition, error) {
		if actorID != l.BorrowerID {
			return loan.Transition{}, loan.ErrNotBorrower
		}
		tr, err := l.SubmitForReview(u.clock.Now())
		tr.ActorID = l.BorrowerID
		return tr, err
	})
}

// Withdraw cancels a loan that has not been funded yet. Only the borrower may.
func (u *Usecase) Withdraw(ctx context.Context, loanID, actorID, note string) (*LoanDTO, error) {
	if actorID == "" {
		return nil, apperr.Validation("actor_id is required")
	}
	return u.transition(ctx, loanID, func(l *loan.Loan) (loan.Transition, error) {
		return l.Withdraw(actorID, note, u.clock.Now())
	})
}

func (u *Usecase) transition(ctx context.Context, loanID string, step func(l *loan.Loan) (loan.Transition, error)) (*LoanDTO, error) {
	var (
		out *loan.Loan
		tr  loan.Transition
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		var err error
		if tr, err = step(l); err != nil {
			return err
		}
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
	return toDTO(out), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	var out *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		out = l
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDTO(out), nil
}

// Schedule is the month-wise plan; before disbursement it is a projection
// from the creation date.
func (u *Usecase) Schedule(ctx context.Context, loanID string) ([]money.Installment, error) {
	dto, err := u.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return dto.Schedule(), nil
}

func (u *Usecase) Transitions(ctx context.Context, loanID string) ([]loan.Transition, error) {
	var out []loan.Transition
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByLoanID(ctx, loanID); err != nil {
			return err
		}
		trs, err := r.Transitions.ListByLoanID(ctx, loanID)
		out = trs
		return err
	})
	return out, err
}
