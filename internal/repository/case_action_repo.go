package repository

import (
	"Gavel/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CaseActionRepo interface {
	WithTx(tx *gorm.DB) CaseActionRepo

	CheckVoteExists(ctx context.Context, caseID, userID uint64) (bool, error)
	CreateVote(ctx context.Context, vote *model.Vote) error
	GetVoteCountByCaseID(ctx context.Context, caseID uint64) (int64, error)

	CreateComment(ctx context.Context, comment *model.CaseComment) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.CaseComment, error)
	DeleteCommentTree(ctx context.Context, commentID uint64) (int64, error)
	GetCommentCountByCaseID(ctx context.Context, caseID uint64) (int64, error)
	GetCommentsByCaseID(ctx context.Context, caseID uint64, limit, offset int) ([]*model.CaseComment, error)
}

type CaseActionRepoImpl struct {
	db *gorm.DB
}

func NewCaseActionRepo(db *gorm.DB) CaseActionRepo {
	return &CaseActionRepoImpl{db}
}

func (s *CaseActionRepoImpl) WithTx(tx *gorm.DB) CaseActionRepo {
	return &CaseActionRepoImpl{tx}
}

func (s *CaseActionRepoImpl) CheckVoteExists(ctx context.Context, caseID, userID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Vote{}).
		Where("case_id = ? AND user_id = ?", caseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (s *CaseActionRepoImpl) CreateVote(ctx context.Context, vote *model.Vote) error {
	return s.db.WithContext(ctx).Create(vote).Error
}

func (s *CaseActionRepoImpl) GetVoteCountByCaseID(ctx context.Context, caseID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Vote{}).
		Where("case_id = ?", caseID).
		Count(&count).Error
	return count, err
}

func (s *CaseActionRepoImpl) CreateComment(ctx context.Context, comment *model.CaseComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *CaseActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.CaseComment, error) {
	comment := &model.CaseComment{}
	err := s.db.WithContext(ctx).First(comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return comment, nil
}

// DeleteCommentTree 删除评论及其下所有回复，返回删除条数
func (s *CaseActionRepoImpl) DeleteCommentTree(ctx context.Context, commentID uint64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? OR parent_id = ?", commentID, commentID).
		Delete(&model.CaseComment{})
	return result.RowsAffected, result.Error
}

// GetCommentCountByCaseID 评论与回复合计
func (s *CaseActionRepoImpl) GetCommentCountByCaseID(ctx context.Context, caseID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.CaseComment{}).
		Where("case_id = ?", caseID).
		Count(&count).Error
	return count, err
}

func (s *CaseActionRepoImpl) GetCommentsByCaseID(ctx context.Context, caseID uint64, limit, offset int) ([]*model.CaseComment, error) {
	var comments []*model.CaseComment
	err := s.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}
