package service

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/model"
	"Gavel/internal/pkg/consts"
	"Gavel/internal/pkg/util"
	"Gavel/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

const maxHotListSize = 50

type CaseService interface {
	CreateCase(ctx context.Context, userID uint64, req *dto.CreateCaseReq) (*dto.CaseDTO, error)
	GetCase(ctx context.Context, caseID uint64) (*dto.CaseDTO, error)
	ListHotCases(ctx context.Context, limit int) ([]*dto.CaseDTO, error)
}

type caseServiceImpl struct {
	txRunner repository.TxRunner
	caseRepo repository.CaseRepo
	userRepo repository.UserRepo
	rank     HotRankCache
	clock    Clock
}

func NewCaseService(
	txRunner repository.TxRunner,
	caseRepo repository.CaseRepo,
	userRepo repository.UserRepo,
	rank HotRankCache,
	clock Clock,
) CaseService {
	return &caseServiceImpl{
		txRunner: txRunner,
		caseRepo: caseRepo,
		userRepo: userRepo,
		rank:     rank,
		clock:    clock,
	}
}

// CreateCase 建案与作者当日发帖计数同事务
func (s *caseServiceImpl) CreateCase(ctx context.Context, userID uint64, req *dto.CreateCaseReq) (*dto.CaseDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, ErrParamInvalid
	}
	hours := req.VoteHours
	if hours == 0 {
		hours = consts.DefaultVoteHours
	}
	if hours < 1 || hours > consts.MaxVoteHours {
		return nil, ErrParamInvalid
	}

	var created *model.Case
	err := s.txRunner.Run(ctx, func(tx *gorm.DB) error {
		now := s.clock.Now()
		created = &model.Case{
			AuthorID:  userID,
			Title:     title,
			Content:   content,
			Status:    model.CaseStatusOpen,
			VoteEndAt: now.Add(time.Duration(hours) * time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.caseRepo.WithTx(tx).CreateCase(ctx, created); err != nil {
			return err
		}

		found, err := bumpDailyStats(ctx, s.userRepo.WithTx(tx), userID, util.DayKey(now, s.clock.Location), func(stats *model.DailyStats) {
			stats.PostCount++
		})
		if err != nil {
			return err
		}
		if !found {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError(ctx, "create case", err)
	}

	log.InfoContext(ctx, "case created", "case_id", created.ID, "author_id", userID, "vote_end_at", created.VoteEndAt)
	return toCaseDTO(created)
}

func (s *caseServiceImpl) GetCase(ctx context.Context, caseID uint64) (*dto.CaseDTO, error) {
	c, err := s.caseRepo.GetCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}
	return toCaseDTO(c)
}

// ListHotCases 优先读 Redis 热度榜，缓存不可用或为空时回源数据库
func (s *caseServiceImpl) ListHotCases(ctx context.Context, limit int) ([]*dto.CaseDTO, error) {
	if limit <= 0 || limit > maxHotListSize {
		limit = maxHotListSize
	}

	cases, err := s.hotCasesFromCache(ctx, limit)
	if err != nil || len(cases) == 0 {
		cases, err = s.caseRepo.ListHotCases(ctx, limit)
		if err != nil {
			return nil, err
		}
	}

	res := make([]*dto.CaseDTO, 0, len(cases))
	for _, c := range cases {
		d, err := toCaseDTO(c)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, nil
}

func (s *caseServiceImpl) hotCasesFromCache(ctx context.Context, limit int) ([]*model.Case, error) {
	if s.rank == nil {
		return nil, nil
	}
	ids, err := s.rank.Top(ctx, limit)
	if err != nil {
		log.WarnContext(ctx, "hot rank cache read failed", "err", err)
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cases, err := s.caseRepo.GetCasesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*model.Case, len(cases))
	for _, c := range cases {
		byID[c.ID] = c
	}
	ordered := make([]*model.Case, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func toCaseDTO(c *model.Case) (*dto.CaseDTO, error) {
	d := &dto.CaseDTO{}
	if err := copier.Copy(d, c); err != nil {
		return nil, err
	}
	d.Status = string(c.Status)
	d.VoteEndAt = c.VoteEndAt.Format(time.RFC3339)
	d.CreatedAt = c.CreatedAt.Format(time.RFC3339)
	return d, nil
}
