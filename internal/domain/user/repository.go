package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// row-locked read; callers must already hold the loan lock when they take both
	GetByUserIDForUpdate(ctx context.Context, userID string) (*User, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]User, error)
	Save(ctx context.Context, u *User) error
}
