package gormrepo

import (
	"context"

	userDomain "artha-lending/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if err != nil && isDuplicate(err) {
		return userDomain.ErrAlreadyExists
	}
	return err
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, translate(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&out).Error
	if err != nil {
		return nil, translate(err, userDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]userDomain.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var out []userDomain.User
	res := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&out)
	return out, res.Error
}
