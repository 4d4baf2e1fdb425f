package marketplace

import (
	"context"
	"errors"
	"testing"

	"artha-lending/internal/adapter/repository/memory"
	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/marketplace"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/testutil/fixture"
	"artha-lending/internal/testutil/uowmock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingCache struct {
	hits  int
	saved []marketplace.Listing
}

func (c *countingCache) Listings(ctx context.Context, load func(context.Context) ([]marketplace.Listing, error)) ([]marketplace.Listing, error) {
	if c.saved != nil {
		c.hits++
		return c.saved, nil
	}
	xs, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.saved = xs
	return xs, nil
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	b := fixture.VerifiedUser(t, s)
	shop := fixture.Loan(t, s, b.UserID, "", 20000, 6, loan.StateListed)
	fixture.Loan(t, s, fixture.VerifiedUser(t, s).UserID, "", 10000, 6, loan.StateUnderReview)
	fixture.Loan(t, s, fixture.VerifiedUser(t, s).UserID, fixture.VerifiedUser(t, s).UserID, 10000, 6, loan.StateActive)

	uc := NewUsecase(s, nil, zap.NewNop())

	got, err := uc.List(ctx, marketplace.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, shop.LoanID, got[0].LoanID)
	assert.Equal(t, marketplace.CategoryBusiness, got[0].Category)
	assert.Equal(t, b.DisplayName, got[0].BorrowerName)
	assert.Equal(t, marketplace.TierUnrated, got[0].RiskTier)

	got, err = uc.List(ctx, marketplace.Filter{Query: "INVENTORY", Category: marketplace.CategoryBusiness})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = uc.List(ctx, marketplace.Filter{Category: marketplace.CategoryEducation})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = uc.List(ctx, marketplace.Filter{Category: "Crypto"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestList_FiltersCachedSet(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	fixture.Loan(t, s, fixture.VerifiedUser(t, s).UserID, "", 20000, 6, loan.StateListed)
	c := &countingCache{}
	uc := NewUsecase(s, c, zap.NewNop())

	_, err := uc.List(ctx, marketplace.Filter{})
	require.NoError(t, err)
	got, err := uc.List(ctx, marketplace.Filter{Query: "nothing like this"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, c.hits)
}

func TestList_PropagatesLoadError(t *testing.T) {
	boom := errors.New("db down")
	uc := NewUsecase(uowmock.New().WithWithinTx(func(ctx context.Context, fn func(uow.Repos) error) error {
		return boom
	}), NoCache{}, zap.NewNop())

	_, err := uc.List(context.Background(), marketplace.Filter{})
	assert.ErrorIs(t, err, boom)
}
