package repository

import (
	"Gavel/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	WithTx(tx *gorm.DB) UserRepo
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	// UpdateWithVersion 按版本号写入，版本不匹配时返回 ErrVersionConflict
	UpdateWithVersion(ctx context.Context, id uint64, version int64, cols map[string]any) error
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) WithTx(tx *gorm.DB) UserRepo {
	return &UserRepoImpl{db: tx}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).First(user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *UserRepoImpl) UpdateWithVersion(ctx context.Context, id uint64, version int64, cols map[string]any) error {
	return updateWithVersion(s.db.WithContext(ctx), model.User{}.TableName(), id, version, cols)
}
