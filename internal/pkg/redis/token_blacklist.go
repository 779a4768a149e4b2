package redis

import (
	"Gavel/internal/pkg/consts"
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist 已注销的 Token 签名，过期时间与 Token 剩余有效期一致
type TokenBlacklist struct {
	rdb *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

func (s *TokenBlacklist) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, consts.TokenBlacklistKey+signature, 1, ttl).Err()
}

func (s *TokenBlacklist) IsRevoked(ctx context.Context, signature string) (bool, error) {
	n, err := s.rdb.Exists(ctx, consts.TokenBlacklistKey+signature).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
