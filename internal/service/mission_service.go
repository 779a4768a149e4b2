package service

import (
	"Gavel/internal/api/dto"
	"Gavel/internal/model"
	"Gavel/internal/pkg/util"
	"Gavel/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type MissionType string

const (
	MissionLevel0 MissionType = "LEVEL_0" // 当日投票、评论、发帖各一次，终身一次
	MissionLevel1 MissionType = "LEVEL_1" // 当日投票 5 次
	MissionLevel2 MissionType = "LEVEL_2" // 当日评论 3 次
	MissionLevel3 MissionType = "LEVEL_3" // 自己的案件关闭后上榜，每个案件一次
)

var missionRewards = map[MissionType]int64{
	MissionLevel0: 100,
	MissionLevel1: 30,
	MissionLevel2: 60,
	MissionLevel3: 100,
}

const maxPointHistoryPageSize = 100

type MissionService interface {
	ClaimReward(ctx context.Context, userID uint64, missionType string) (*dto.ClaimRewardDTO, error)
	GetMissionStatus(ctx context.Context, userID uint64) (*dto.MissionStatusDTO, error)
	ListPointHistory(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.PointHistoryDTO, error)
}

type missionServiceImpl struct {
	txRunner  repository.TxRunner
	userRepo  repository.UserRepo
	caseRepo  repository.CaseRepo
	pointRepo repository.PointHistoryRepo
	clock     Clock
}

func NewMissionService(
	txRunner repository.TxRunner,
	userRepo repository.UserRepo,
	caseRepo repository.CaseRepo,
	pointRepo repository.PointHistoryRepo,
	clock Clock,
) MissionService {
	return &missionServiceImpl{
		txRunner:  txRunner,
		userRepo:  userRepo,
		caseRepo:  caseRepo,
		pointRepo: pointRepo,
		clock:     clock,
	}
}

// ClaimReward 条件判断、积分发放、领取标记与流水写入在同一个事务内完成
func (s *missionServiceImpl) ClaimReward(ctx context.Context, userID uint64, missionType string) (*dto.ClaimRewardDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	mission := MissionType(missionType)
	reward, ok := missionRewards[mission]
	if !ok {
		return nil, ErrMissionTypeInvalid
	}

	var res *dto.ClaimRewardDTO
	err := s.txRunner.Run(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		caseRepo := s.caseRepo.WithTx(tx)

		user, err := userRepo.GetUserById(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		now := s.clock.Now()
		stats, reset := user.DailyStats.Effective(util.DayKey(now, s.clock.Location))
		cols := make(map[string]any)
		var caseID uint64

		switch mission {
		case MissionLevel0:
			if stats.VoteCount < 1 || stats.CommentCount < 1 || stats.PostCount < 1 {
				return ErrMissionNotMet
			}
			if user.IsLevel0Claimed {
				return ErrMissionClaimed
			}
			cols["is_level0_claimed"] = true
		case MissionLevel1:
			if stats.VoteCount < 5 {
				return ErrMissionNotMet
			}
			if stats.IsLevel1Claimed {
				return ErrMissionClaimed
			}
			stats.IsLevel1Claimed = true
		case MissionLevel2:
			if stats.CommentCount < 3 {
				return ErrMissionNotMet
			}
			if stats.IsLevel2Claimed {
				return ErrMissionClaimed
			}
			stats.IsLevel2Claimed = true
		case MissionLevel3:
			// 选案件与标记上榜必须在同一事务，并发领取时版本冲突会使其中一方重放并找不到候选
			target, err := caseRepo.FindHotListCandidate(ctx, userID)
			if err != nil {
				return err
			}
			if target == nil {
				return ErrNoHotListedCase
			}
			if err = caseRepo.UpdateWithVersion(ctx, target.ID, target.Version, map[string]any{"is_hot_listed": true}); err != nil {
				return err
			}
			caseID = target.ID
		}

		if reset || mission == MissionLevel1 || mission == MissionLevel2 {
			for k, v := range stats.Columns() {
				cols[k] = v
			}
		}
		points := user.Points + reward
		cols["points"] = points

		if err = userRepo.UpdateWithVersion(ctx, user.ID, user.Version, cols); err != nil {
			return err
		}

		err = s.pointRepo.WithTx(tx).CreatePointHistory(ctx, &model.PointHistory{
			UserID:    user.ID,
			Type:      model.PointTypeEarn,
			Amount:    reward,
			Reason:    string(mission),
			CreatedAt: now,
		})
		if err != nil {
			return err
		}

		res = &dto.ClaimRewardDTO{
			Success: true,
			Message: fmt.Sprintf("%s 奖励已到账 +%d", mission, reward),
			Reward:  reward,
			Points:  points,
			CaseID:  caseID,
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError(ctx, "claim reward", err)
	}

	log.InfoContext(ctx, "mission reward granted", "user_id", userID, "mission", mission, "reward", reward, "case_id", res.CaseID)
	return res, nil
}

// GetMissionStatus 只读视图，跨日清零只作用于返回值，不落库
func (s *missionServiceImpl) GetMissionStatus(ctx context.Context, userID uint64) (*dto.MissionStatusDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	today := s.clock.Today()
	stats, _ := user.DailyStats.Effective(today)

	eligible, err := s.caseRepo.CountHotListCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &dto.MissionStatusDTO{}
	if err = copier.Copy(res, &stats); err != nil {
		return nil, err
	}
	res.Today = today
	res.Points = user.Points
	res.IsLevel0Claimed = user.IsLevel0Claimed
	res.HotListEligible = eligible
	return res, nil
}

func (s *missionServiceImpl) ListPointHistory(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.PointHistoryDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	limit, offset := util.NormalizePage(page, pageSize, maxPointHistoryPageSize)
	entries, err := s.pointRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PointHistoryDTO, 0, len(entries))
	for _, e := range entries {
		item := &dto.PointHistoryDTO{}
		if err = copier.Copy(item, e); err != nil {
			return nil, err
		}
		item.CreatedAt = e.CreatedAt.Format(time.RFC3339)
		res = append(res, item)
	}
	return res, nil
}
