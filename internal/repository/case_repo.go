package repository

import (
	"Gavel/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CaseRepo interface {
	WithTx(tx *gorm.DB) CaseRepo
	CreateCase(ctx context.Context, c *model.Case) error
	GetCaseByID(ctx context.Context, id uint64) (*model.Case, error)
	GetCasesByIDs(ctx context.Context, ids []uint64) ([]*model.Case, error)
	UpdateWithVersion(ctx context.Context, id uint64, version int64, cols map[string]any) error
	AdjustCommentCount(ctx context.Context, id uint64, delta int) error
	UpdateHotScore(ctx context.Context, id uint64, score int) error
	ListHotCases(ctx context.Context, limit int) ([]*model.Case, error)

	FindHotListCandidate(ctx context.Context, authorID uint64) (*model.Case, error)
	CountHotListCandidates(ctx context.Context, authorID uint64) (int64, error)

	FindExpiredOpenCases(ctx context.Context, now time.Time) ([]*model.Case, error)
	FilterOpenIDs(ctx context.Context, ids []uint64) ([]uint64, error)
	CloseOpenCases(ctx context.Context, ids []uint64) (int64, error)
}

type CaseRepoImpl struct {
	db *gorm.DB
}

func NewCaseRepo(db *gorm.DB) CaseRepo {
	return &CaseRepoImpl{db}
}

func (s *CaseRepoImpl) WithTx(tx *gorm.DB) CaseRepo {
	return &CaseRepoImpl{tx}
}

func (s *CaseRepoImpl) CreateCase(ctx context.Context, c *model.Case) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *CaseRepoImpl) GetCaseByID(ctx context.Context, id uint64) (*model.Case, error) {
	c := &model.Case{}
	err := s.db.WithContext(ctx).First(c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *CaseRepoImpl) GetCasesByIDs(ctx context.Context, ids []uint64) ([]*model.Case, error) {
	cases := make([]*model.Case, 0, len(ids))
	if len(ids) == 0 {
		return cases, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&cases).Error
	return cases, err
}

func (s *CaseRepoImpl) UpdateWithVersion(ctx context.Context, id uint64, version int64, cols map[string]any) error {
	return updateWithVersion(s.db.WithContext(ctx), model.Case{}.TableName(), id, version, cols)
}

// AdjustCommentCount 冗余评论数的增减，不参与版本控制，减到 0 为止
func (s *CaseRepoImpl) AdjustCommentCount(ctx context.Context, id uint64, delta int) error {
	expr := gorm.Expr("comment_count + ?", delta)
	if delta < 0 {
		expr = gorm.Expr("CASE WHEN comment_count + ? < 0 THEN 0 ELSE comment_count + ? END", delta, delta)
	}
	return s.db.WithContext(ctx).Model(&model.Case{}).
		Where("id = ?", id).
		Update("comment_count", expr).Error
}

func (s *CaseRepoImpl) UpdateHotScore(ctx context.Context, id uint64, score int) error {
	return s.db.WithContext(ctx).Model(&model.Case{}).
		Where("id = ?", id).
		Update("hot_score", score).Error
}

func (s *CaseRepoImpl) ListHotCases(ctx context.Context, limit int) ([]*model.Case, error) {
	var cases []*model.Case
	err := s.db.WithContext(ctx).
		Where("hot_score > ?", 0).
		Order("hot_score DESC, id DESC").
		Limit(limit).
		Find(&cases).Error
	return cases, err
}

func hotListCandidates(db *gorm.DB, authorID uint64) *gorm.DB {
	return db.Model(&model.Case{}).
		Where("author_id = ? AND status = ? AND hot_score > ? AND is_hot_listed = ?",
			authorID, model.CaseStatusClosed, 0, false)
}

// FindHotListCandidate 取 id 最小的一条可领取 LEVEL_3 奖励的案件
func (s *CaseRepoImpl) FindHotListCandidate(ctx context.Context, authorID uint64) (*model.Case, error) {
	c := &model.Case{}
	err := hotListCandidates(s.db.WithContext(ctx), authorID).
		Order("id ASC").
		First(c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *CaseRepoImpl) CountHotListCandidates(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := hotListCandidates(s.db.WithContext(ctx), authorID).Count(&count).Error
	return count, err
}

// FindExpiredOpenCases 查询投票已截止但仍为 OPEN 的案件，只取关闭与通知需要的列
func (s *CaseRepoImpl) FindExpiredOpenCases(ctx context.Context, now time.Time) ([]*model.Case, error) {
	var cases []*model.Case
	err := s.db.WithContext(ctx).
		Select("id", "author_id", "title", "status", "vote_end_at").
		Where("status = ? AND vote_end_at <= ?", model.CaseStatusOpen, now).
		Order("id ASC").
		Find(&cases).Error
	return cases, err
}

func (s *CaseRepoImpl) FilterOpenIDs(ctx context.Context, ids []uint64) ([]uint64, error) {
	var open []uint64
	if len(ids) == 0 {
		return open, nil
	}
	err := s.db.WithContext(ctx).Model(&model.Case{}).
		Where("id IN ? AND status = ?", ids, model.CaseStatusOpen).
		Order("id ASC").
		Pluck("id", &open).Error
	return open, err
}

// CloseOpenCases 只会把 OPEN 改为 CLOSED，不存在反向写入
func (s *CaseRepoImpl) CloseOpenCases(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Model(&model.Case{}).
		Where("id IN ? AND status = ?", ids, model.CaseStatusOpen).
		Updates(map[string]any{
			"status":     model.CaseStatusClosed,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
