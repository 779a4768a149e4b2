package redis

import (
	"Gavel/internal/pkg/consts"
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// HotRank 热度榜，ZSET 成员为案件ID，分数为 hotScore
type HotRank struct {
	rdb *redis.Client
	key string
}

func NewHotRank(rdb *redis.Client) *HotRank {
	return &HotRank{rdb: rdb, key: consts.CaseHotRankKey}
}

// Update 分数为 0 时移出榜单
func (s *HotRank) Update(ctx context.Context, caseID uint64, score int) error {
	member := strconv.FormatUint(caseID, 10)
	if score <= 0 {
		return s.rdb.ZRem(ctx, s.key, member).Err()
	}
	return s.rdb.ZAdd(ctx, s.key, redis.Z{Score: float64(score), Member: member}).Err()
}

// Top 按分数从高到低返回前 limit 个案件ID
func (s *HotRank) Top(ctx context.Context, limit int) ([]uint64, error) {
	members, err := s.rdb.ZRevRange(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
