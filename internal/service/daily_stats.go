package service

import (
	"Gavel/internal/model"
	"Gavel/internal/repository"
	"context"
	log "log/slog"
)

// bumpDailyStats 在调用方的事务内读取用户当日计数，跨日先清零再累加，整体按版本号写回
// 用户记录不存在时跳过，返回 false
func bumpDailyStats(ctx context.Context, userRepo repository.UserRepo, userID uint64, today string, apply func(stats *model.DailyStats)) (bool, error) {
	user, err := userRepo.GetUserById(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		log.WarnContext(ctx, "daily stats skipped, user record missing", "user_id", userID)
		return false, nil
	}

	stats, reset := user.DailyStats.Effective(today)
	if reset {
		log.InfoContext(ctx, "daily stats rolled over", "user_id", userID, "from", user.DailyStats.LastActiveDate, "to", today)
	}
	apply(&stats)

	if err = userRepo.UpdateWithVersion(ctx, user.ID, user.Version, stats.Columns()); err != nil {
		return false, err
	}
	return true, nil
}
