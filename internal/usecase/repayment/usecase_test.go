package repayment

import (
	"context"
	"testing"

	"artha-lending/internal/adapter/payment"
	"artha-lending/internal/adapter/repository/memory"
	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/loan"
	domainPayment "artha-lending/internal/domain/payment"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/domain/user"
	"artha-lending/internal/testutil/fixture"
	"artha-lending/internal/usecase/guard"
	"artha-lending/pkg/clock"
	"artha-lending/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T, principal int64, tenure int, gw domainPayment.Gateway) (*Usecase, *memory.Store, *loan.Loan) {
	t.Helper()
	s := memory.NewStore()
	b := fixture.VerifiedUser(t, s)
	l := fixture.Loan(t, s, b.UserID, fixture.VerifiedUser(t, s).UserID, principal, tenure, loan.StateActive)
	return NewUsecase(s, gw, clock.NewManual(fixture.Epoch.AddDate(0, 1, 0)), zap.NewNop()), s, l
}

func TestRepay_FullScheduleClosesLoan(t *testing.T) {
	ctx := context.Background()
	uc, s, l := setup(t, 20000, 6, payment.StaticGateway{})

	var last *RepaymentDTO
	for i := 0; i < 6; i++ {
		dto, err := uc.Repay(ctx, RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, InstallmentIndex: i, Amount: l.EMIAmount})
		require.NoError(t, err, "installment %d", i)
		require.Len(t, dto.Records, 1)
		assert.Equal(t, i, dto.Records[0].InstallmentIndex)
		assert.Equal(t, i+1, dto.Loan.PaidEMICount)
		last = dto
	}
	assert.True(t, last.Closed)
	assert.Equal(t, loan.StateClosed, last.Loan.State)
	require.NotNil(t, last.BorrowerCreditScore)
	assert.Equal(t, user.InitialCreditScore+user.RepaymentReward, *last.BorrowerCreditScore)

	h, err := uc.History(ctx, l.LoanID)
	require.NoError(t, err)
	assert.Equal(t, 6, h.PaidEMICount)
	assert.Equal(t, l.EMIAmount*6, h.TotalRepaid)
	assert.Zero(t, h.Outstanding)

	interest := decimal.Zero
	for _, r := range h.Records {
		interest = interest.Add(r.InterestPortion)
	}
	assert.True(t, interest.Equal(decimal.NewFromInt(l.EMIAmount*6-20000)), "interest=%s", interest)

	// role released once nothing is outstanding
	fixture.Read(t, s, func(ctx context.Context, r uow.Repos) error {
		borrower, _ := r.Users.GetByUserID(ctx, l.BorrowerID)
		sub, err := guard.LoadSubject(ctx, r, borrower)
		require.NoError(t, err)
		assert.Equal(t, user.RoleNone, sub.Role)

		lender, _ := r.Users.GetByUserID(ctx, l.LenderID)
		sub, err = guard.LoadSubject(ctx, r, lender)
		require.NoError(t, err)
		assert.Equal(t, user.RoleNone, sub.Role)
		assert.Zero(t, sub.LendingExposure)
		return nil
	})

	_, err = uc.Repay(ctx, RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, InstallmentIndex: 6, Amount: l.EMIAmount})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestRepay_MultiInstallmentAppliedSequentially(t *testing.T) {
	ctx := context.Background()
	uc, _, l := setup(t, 50000, 12, payment.StaticGateway{})

	dto, err := uc.Repay(ctx, RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, InstallmentIndex: 0, Amount: 3 * l.EMIAmount})
	require.NoError(t, err)
	require.Len(t, dto.Records, 3)
	for i, r := range dto.Records {
		assert.Equal(t, i, r.InstallmentIndex)
		assert.Equal(t, l.EMIAmount, r.Amount)
	}
	assert.Equal(t, "541.67", dto.Records[0].InterestPortion.StringFixed(2))
	assert.Equal(t, 3, dto.Loan.PaidEMICount)
	assert.False(t, dto.Closed)
	assert.Nil(t, dto.BorrowerCreditScore)

	dto, err = uc.Repay(ctx, RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, InstallmentIndex: 3, Amount: 9 * l.EMIAmount})
	require.NoError(t, err)
	assert.True(t, dto.Closed)
}

func TestRepay_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		gateway  domainPayment.Gateway
		in       func(l *loan.Loan) RepayInput
		wantKind apperr.Kind
		reason   apperr.Reason
	}{
		{
			name:     "skipping ahead with an exact emi",
			in:       func(l *loan.Loan) RepayInput { return RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, InstallmentIndex: 1, Amount: l.EMIAmount} },
			wantKind: apperr.KindValidation,
		},
		{
			name:     "skipping ahead with a large amount",
			in:       func(l *loan.Loan) RepayInput { return RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, InstallmentIndex: 2, Amount: 4 * l.EMIAmount} },
			wantKind: apperr.KindValidation,
		},
		{
			name:     "partial emi",
			in:       func(l *loan.Loan) RepayInput { return RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, Amount: l.EMIAmount - 1} },
			wantKind: apperr.KindValidation,
		},
		{
			name:     "more than what remains",
			in:       func(l *loan.Loan) RepayInput { return RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, Amount: 7 * l.EMIAmount} },
			wantKind: apperr.KindValidation,
		},
		{
			name:     "non positive amount",
			in:       func(l *loan.Loan) RepayInput { return RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID} },
			wantKind: apperr.KindValidation,
		},
		{
			name:     "no payer",
			in:       func(l *loan.Loan) RepayInput { return RepayInput{LoanID: l.LoanID, Amount: l.EMIAmount} },
			wantKind: apperr.KindValidation,
		},
		{
			name: "someone else pays",
			in: func(l *loan.Loan) RepayInput {
				return RepayInput{LoanID: l.LoanID, PayerID: l.LenderID, Amount: l.EMIAmount}
			},
			wantKind: apperr.KindEligibility, reason: apperr.ReasonRoleConflict,
		},
		{
			name:     "payment declined",
			gateway:  payment.DecliningGateway{},
			in:       func(l *loan.Loan) RepayInput { return RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, Amount: l.EMIAmount} },
			wantKind: apperr.KindUpstream,
		},
		{
			name:     "unknown loan",
			in:       func(l *loan.Loan) RepayInput { return RepayInput{LoanID: id.NewID32(), PayerID: l.BorrowerID, Amount: l.EMIAmount} },
			wantKind: apperr.KindNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw := tc.gateway
			if gw == nil {
				gw = payment.StaticGateway{}
			}
			uc, s, l := setup(t, 20000, 6, gw)

			_, err := uc.Repay(context.Background(), tc.in(l))
			require.Error(t, err)
			assert.Equal(t, tc.wantKind, apperr.KindOf(err))
			assert.Equal(t, tc.reason, apperr.ReasonOf(err))

			fixture.Read(t, s, func(ctx context.Context, r uow.Repos) error {
				rs, _ := r.Ledger.RepaymentsByLoanID(ctx, l.LoanID)
				assert.Empty(t, rs)
				got, _ := r.Loans.GetByLoanID(ctx, l.LoanID)
				assert.Zero(t, got.PaidEMICount)
				return nil
			})
		})
	}
}

func TestRepay_RejectsLoanThatIsNotActive(t *testing.T) {
	s := memory.NewStore()
	b := fixture.VerifiedUser(t, s)
	l := fixture.Loan(t, s, b.UserID, "", 20000, 6, loan.StateListed)
	uc := NewUsecase(s, payment.StaticGateway{}, clock.System{}, zap.NewNop())

	_, err := uc.Repay(context.Background(), RepayInput{LoanID: l.LoanID, PayerID: l.BorrowerID, Amount: l.EMIAmount})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}
