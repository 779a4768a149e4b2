package service

import (
	"Gavel/internal/repository"
	"context"
	log "log/slog"
)

// HotRankCache 热度榜缓存
type HotRankCache interface {
	Update(ctx context.Context, caseID uint64, score int) error
	Top(ctx context.Context, limit int) ([]uint64, error)
}

type HotScoreService interface {
	// Recompute 按当前投票与评论总数全量重算，重复或乱序触发结果一致
	Recompute(ctx context.Context, caseID uint64) (int, error)
}

type hotScoreServiceImpl struct {
	actionRepo repository.CaseActionRepo
	caseRepo   repository.CaseRepo
	rank       HotRankCache
}

func NewHotScoreService(actionRepo repository.CaseActionRepo, caseRepo repository.CaseRepo, rank HotRankCache) HotScoreService {
	return &hotScoreServiceImpl{
		actionRepo: actionRepo,
		caseRepo:   caseRepo,
		rank:       rank,
	}
}

// HotScore votes + 2 * (评论 + 回复)
func HotScore(votes, comments int64) int {
	return int(votes + 2*comments)
}

func (s *hotScoreServiceImpl) Recompute(ctx context.Context, caseID uint64) (int, error) {
	c, err := s.caseRepo.GetCaseByID(ctx, caseID)
	if err != nil {
		return 0, err
	}
	if c == nil {
		log.WarnContext(ctx, "hot score recompute skipped, case missing", "case_id", caseID)
		return 0, nil
	}

	votes, err := s.actionRepo.GetVoteCountByCaseID(ctx, caseID)
	if err != nil {
		return 0, err
	}
	comments, err := s.actionRepo.GetCommentCountByCaseID(ctx, caseID)
	if err != nil {
		return 0, err
	}

	score := HotScore(votes, comments)
	if err = s.caseRepo.UpdateHotScore(ctx, caseID, score); err != nil {
		return 0, err
	}

	if s.rank != nil {
		if err = s.rank.Update(ctx, caseID, score); err != nil {
			log.WarnContext(ctx, "hot rank cache update failed", "case_id", caseID, "err", err)
		}
	}

	log.InfoContext(ctx, "hot score recomputed", "case_id", caseID, "votes", votes, "comments", comments, "score", score)
	return score, nil
}
