// Package marketplace serves the lender-facing view of LISTED loans.
package marketplace

import (
	"context"

	"artha-lending/internal/domain/apperr"
	"artha-lending/internal/domain/loan"
	"artha-lending/internal/domain/marketplace"
	"artha-lending/internal/domain/uow"
	"artha-lending/internal/domain/user"

	"go.uber.org/zap"
)

// Cache holds the unfiltered listing set. load is called on a miss.
type Cache interface {
	Listings(ctx context.Context, load func(context.Context) ([]marketplace.Listing, error)) ([]marketplace.Listing, error)
}

// NoCache always loads.
type NoCache struct{}

func (NoCache) Listings(ctx context.Context, load func(context.Context) ([]marketplace.Listing, error)) ([]marketplace.Listing, error) {
	return load(ctx)
}

type Usecase struct {
	uow   uow.UnitOfWork
	cache Cache
	log   *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, cache Cache, log *zap.Logger) *Usecase {
	if cache == nil {
		cache = NoCache{}
	}
	return &Usecase{uow: tx, cache: cache, log: log}
}

func (u *Usecase) List(ctx context.Context, f marketplace.Filter) ([]marketplace.Listing, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, apperr.Validation("unknown category %q", f.Category)
	}
	all, err := u.cache.Listings(ctx, u.load)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

func (u *Usecase) load(ctx context.Context) ([]marketplace.Listing, error) {
	var out []marketplace.Listing
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		listed, err := r.Loans.ListByStates(ctx, loan.StateListed)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(listed))
		for _, l := range listed {
			ids = append(ids, l.BorrowerID)
		}
		borrowers, err := r.Users.ListByUserIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]user.User, len(borrowers))
		for _, b := range borrowers {
			byID[b.UserID] = b
		}
		out = marketplace.Build(listed, byID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Debug("marketplace loaded", zap.Int("listings", len(out)))
	return out, nil
}
