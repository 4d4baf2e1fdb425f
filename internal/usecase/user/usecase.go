// Package user records the facts the identity, bank and credit collaborators
// publish about a person. Guards re-read these inside their own transaction.
package user

import (
	"context"
	"strings"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/eligibility"
	"artha-lending/internal/domain/policy"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/domain/user"
	"artha-lending/internal/usecase/guard"
	"artha-lending/pkg/clock"
	"artha-lending/pkg/id"

	"go.uber.org/zap"
)

// bureau score range accepted from the credit collaborator
const (
	minBureauScore = 300
	maxBureauScore = 900
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

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return nil, apperr.Validation("display_name is required")
	}
	userID := in.UserID
	if userID == "" {
		userID = id.NewID32()
	} else if !id.Valid(userID) {
		return nil, apperr.Validation("user_id must be 32 lowercase hex characters")
	}
	kyc := in.KYCStatus
	if kyc == "" {
		kyc = user.KYCUnverified
	}
	if !kyc.Valid() {
		return nil, apperr.Validation("unknown kyc_status %q", kyc)
	}

	now := u.clock.Now()
	nu := &user.User{UserID: userID, DisplayName: name, KYCStatus: kyc, CreatedAt: now, UpdatedAt: now}
	if err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Users.Create(ctx, nu)
	}); err != nil {
		return nil, err
	}
	u.log.Info("user registered", zap.String("user_id", userID), zap.String("kyc_status", string(kyc)))
	return nu, nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*user.User, error) {
	var out *user.User
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Users.GetByUserID(ctx, userID)
		return err
	})
	return out, err
}

func (u *Usecase) RecordKYC(ctx context.Context, userID string, status user.KYCStatus) (*user.User, error) {
	if !status.Valid() {
		return nil, apperr.Validation("unknown kyc_status %q", status)
	}
	return u.update(ctx, userID, "kyc recorded", func(x *user.User) {
		x.KYCStatus = status
	}, zap.String("kyc_status", string(status)))
}

func (u *Usecase) SetBankDetails(ctx context.Context, userID string, added bool) (*user.User, error) {
	return u.update(ctx, userID, "bank details recorded", func(x *user.User) {
		x.BankDetailsAdded = added
	}, zap.Bool("bank_details_added", added))
}

func (u *Usecase) SetCreditScore(ctx context.Context, userID string, score int) (*user.User, error) {
	if score < minBureauScore || score > maxBureauScore {
		return nil, apperr.Validation("credit score %d outside %d..%d", score, minBureauScore, maxBureauScore)
	}
	return u.update(ctx, userID, "credit score recorded", func(x *user.User) {
		x.CreditScore = &score
	}, zap.Int("credit_score", score))
}

func (u *Usecase) update(ctx context.Context, userID, msg string, apply func(*user.User), fields ...zap.Field) (*user.User, error) {
	var out *user.User
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		x, err := r.Users.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		apply(x)
		x.UpdatedAt = u.clock.Now()
		if err := r.Users.Save(ctx, x); err != nil {
			return err
		}
		out = x
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info(msg, append(fields, zap.String("user_id", userID))...)
	return out, nil
}

// Eligibility evaluates every guard for amount against a fresh subject.
func (u *Usecase) Eligibility(ctx context.Context, userID string, amount int64) (*EligibilityDTO, error) {
	if amount < 0 {
		return nil, apperr.Validation("amount must not be negative")
	}
	var out *EligibilityDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		x, err := r.Users.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		s, err := guard.LoadSubject(ctx, r, x)
		if err != nil {
			return err
		}
		out = &EligibilityDTO{
			Subject:         s,
			Amount:          amount,
			BorrowLimit:     eligibility.BorrowLimit(u.policy, s),
			LendingHeadroom: max(u.policy.LendingLimit-s.LendingExposure, 0),
			CanRequestLoan:  eligibility.CanRequestLoan(u.policy, s),
			CanBorrow:       eligibility.CanBorrow(u.policy, s, amount),
			CanLend:         eligibility.CanLend(u.policy, s, amount),
		}
		return nil
	})
	return out, err
}
