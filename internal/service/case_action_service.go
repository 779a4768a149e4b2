package service

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/model"
	"Gavel/internal/pkg/util"
	"Gavel/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

const (
	maxCommentLength   = 1000
	maxCommentPageSize = 100
)

// CaseChangeNotifier 投票或评论变更后触发热度重算
type CaseChangeNotifier interface {
	CaseChanged(ctx context.Context, caseID uint64)
}

// NopChangeNotifier 由 CDC 负责触发时使用
type NopChangeNotifier struct{}

func (NopChangeNotifier) CaseChanged(context.Context, uint64) {}

type CaseActionService interface {
	AddVote(ctx context.Context, caseID, userID uint64, voteType string) error
	AddComment(ctx context.Context, caseID, userID uint64, content string) (uint64, error)
	AddReply(ctx context.Context, caseID, parentID, userID uint64, content string) (uint64, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	ListComments(ctx context.Context, caseID uint64, page, pageSize int) ([]*dto.CommentDTO, error)
}

type caseActionServiceImpl struct {
	txRunner   repository.TxRunner
	actionRepo repository.CaseActionRepo
	caseRepo   repository.CaseRepo
	userRepo   repository.UserRepo
	notifier   CaseChangeNotifier
	clock      Clock
}

func NewCaseActionService(
	txRunner repository.TxRunner,
	actionRepo repository.CaseActionRepo,
	caseRepo repository.CaseRepo,
	userRepo repository.UserRepo,
	notifier CaseChangeNotifier,
	clock Clock,
) CaseActionService {
	if notifier == nil {
		notifier = NopChangeNotifier{}
	}
	return &caseActionServiceImpl{
		txRunner:   txRunner,
		actionRepo: actionRepo,
		caseRepo:   caseRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		clock:      clock,
	}
}

// AddVote 查重、建票、计数与投票人当日统计在同一事务内完成
func (s *caseActionServiceImpl) AddVote(ctx context.Context, caseID, userID uint64, voteType string) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	vt := model.VoteType(voteType)
	if vt != model.VoteGuilty && vt != model.VoteInnocent {
		return ErrVoteTypeInvalid
	}

	err := s.txRunner.Run(ctx, func(tx *gorm.DB) error {
		actionRepo := s.actionRepo.WithTx(tx)
		caseRepo := s.caseRepo.WithTx(tx)

		exists, err := actionRepo.CheckVoteExists(ctx, caseID, userID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyVoted
		}

		c, err := caseRepo.GetCaseByID(ctx, caseID)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrCaseNotFound
		}

		now := s.clock.Now()
		err = actionRepo.CreateVote(ctx, &model.Vote{CaseID: caseID, UserID: userID, VoteType: vt, CreatedAt: now})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}

		cols := map[string]any{"guilty_count": c.GuiltyCount + 1}
		if vt == model.VoteInnocent {
			cols = map[string]any{"innocent_count": c.InnocentCount + 1}
		}
		if err = caseRepo.UpdateWithVersion(ctx, c.ID, c.Version, cols); err != nil {
			return err
		}

		_, err = bumpDailyStats(ctx, s.userRepo.WithTx(tx), userID, util.DayKey(now, s.clock.Location), func(stats *model.DailyStats) {
			stats.VoteCount++
		})
		return err
	})
	if err != nil {
		return wrapTxError(ctx, "add vote", err)
	}

	s.notifier.CaseChanged(ctx, caseID)
	return nil
}

func (s *caseActionServiceImpl) AddComment(ctx context.Context, caseID, userID uint64, content string) (uint64, error) {
	return s.createComment(ctx, caseID, 0, userID, content)
}

func (s *caseActionServiceImpl) AddReply(ctx context.Context, caseID, parentID, userID uint64, content string) (uint64, error) {
	if parentID == 0 {
		return 0, ErrParamInvalid
	}
	return s.createComment(ctx, caseID, parentID, userID, content)
}

// createComment 评论写入与作者当日统计同事务，案件冗余评论数在事务外尽力更新
func (s *caseActionServiceImpl) createComment(ctx context.Context, caseID, parentID, userID uint64, content string) (uint64, error) {
	if userID == 0 {
		return 0, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxCommentLength {
		return 0, ErrParamInvalid
	}

	var comment *model.CaseComment
	err := s.txRunner.Run(ctx, func(tx *gorm.DB) error {
		actionRepo := s.actionRepo.WithTx(tx)

		c, err := s.caseRepo.WithTx(tx).GetCaseByID(ctx, caseID)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrCaseNotFound
		}

		now := s.clock.Now()
		comment = &model.CaseComment{
			CaseID:    caseID,
			UserID:    userID,
			Content:   content,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if parentID > 0 {
			parent, err := actionRepo.GetCommentByID(ctx, parentID)
			if err != nil {
				return err
			}
			if parent == nil || parent.CaseID != caseID {
				return ErrCommentNotFound
			}
			// 回复统一挂在顶级评论下
			comment.ParentID = parent.ID
			if parent.IsReply() {
				comment.ParentID = parent.ParentID
			}
			comment.ReplyToUserID = parent.UserID
		}

		if err = actionRepo.CreateComment(ctx, comment); err != nil {
			return err
		}

		_, err = bumpDailyStats(ctx, s.userRepo.WithTx(tx), userID, util.DayKey(now, s.clock.Location), func(stats *model.DailyStats) {
			stats.CommentCount++
		})
		return err
	})
	if err != nil {
		return 0, wrapTxError(ctx, "create comment", err)
	}

	if err = s.caseRepo.AdjustCommentCount(ctx, caseID, 1); err != nil {
		log.WarnContext(ctx, "case comment count increment failed", "case_id", caseID, "err", err)
	}
	s.notifier.CaseChanged(ctx, caseID)
	return comment.ID, nil
}

// DeleteComment 仅作者可删，顶级评论连同回复一起删除
func (s *caseActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	if userID == 0 {
		return ErrUnauthenticated
	}

	var caseID uint64
	var removed int64
	err := s.txRunner.Run(ctx, func(tx *gorm.DB) error {
		actionRepo := s.actionRepo.WithTx(tx)
		comment, err := actionRepo.GetCommentByID(ctx, commentID)
		if err != nil {
			return err
		}
		if comment == nil {
			return ErrCommentNotFound
		}
		if comment.UserID != userID {
			return ErrCommentNotOwned
		}
		caseID = comment.CaseID
		removed, err = actionRepo.DeleteCommentTree(ctx, commentID)
		return err
	})
	if err != nil {
		return wrapTxError(ctx, "delete comment", err)
	}

	if removed > 0 {
		if err = s.caseRepo.AdjustCommentCount(ctx, caseID, -int(removed)); err != nil {
			log.WarnContext(ctx, "case comment count decrement failed", "case_id", caseID, "err", err)
		}
		s.notifier.CaseChanged(ctx, caseID)
	}
	return nil
}

func (s *caseActionServiceImpl) ListComments(ctx context.Context, caseID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	limit, offset := util.NormalizePage(page, pageSize, maxCommentPageSize)
	comments, err := s.actionRepo.GetCommentsByCaseID(ctx, caseID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		d := &dto.CommentDTO{}
		if err = copier.Copy(d, c); err != nil {
			return nil, err
		}
		d.CreatedAt = c.CreatedAt.Format(time.RFC3339)
		res = append(res, d)
	}
	return res, nil
}
