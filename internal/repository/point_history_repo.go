package repository

import (
	"Gavel/internal/model"
	"context"

	"gorm.io/gorm"
)

type PointHistoryRepo interface {
	WithTx(tx *gorm.DB) PointHistoryRepo
	CreatePointHistory(ctx context.Context, entry *model.PointHistory) error
	ListByUserID(ctx context.Context, userID uint64, limit, offset int) ([]*model.PointHistory, error)
}

type PointHistoryRepoImpl struct {
	db *gorm.DB
}

func NewPointHistoryRepo(db *gorm.DB) PointHistoryRepo {
	return &PointHistoryRepoImpl{db}
}

func (s *PointHistoryRepoImpl) WithTx(tx *gorm.DB) PointHistoryRepo {
	return &PointHistoryRepoImpl{tx}
}

func (s *PointHistoryRepoImpl) CreatePointHistory(ctx context.Context, entry *model.PointHistory) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// ListByUserID 按时间倒序分页
func (s *PointHistoryRepoImpl) ListByUserID(ctx context.Context, userID uint64, limit, offset int) ([]*model.PointHistory, error) {
	var entries []*model.PointHistory
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	return entries, err
}
