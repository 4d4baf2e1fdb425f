package usermock

import (
	"context"

	domain "artha-lending/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, u *domain.User) error
	GetByUserIDFn          func(ctx context.Context, userID string) (*domain.User, error)
	GetByUserIDForUpdateFn func(ctx context.Context, userID string) (*domain.User, error)
	ListByUserIDsFn        func(ctx context.Context, userIDs []string) ([]domain.User, error)
	SaveFn                 func(ctx context.Context, u *domain.User) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

// GetByUserIDForUpdate falls back to GetByUserIDFn so a test only has to stub one read.
func (m *Repo) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDForUpdateFn != nil {
		return m.GetByUserIDForUpdateFn(ctx, userID)
	}
	return m.GetByUserID(ctx, userID)
}

func (m *Repo) ListByUserIDs(ctx context.Context, userIDs []string) ([]domain.User, error) {
	if m.ListByUserIDsFn != nil {
		return m.ListByUserIDsFn(ctx, userIDs)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}
