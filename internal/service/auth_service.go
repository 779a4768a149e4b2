package service

import (
	"Gavel/internal/pkg/security"
	"context"
	"time"
)

// TokenRevoker 注销后的 Token 黑名单
type TokenRevoker interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
}

type AuthService interface {
	Logout(ctx context.Context, token string) error
}

type authServiceImpl struct {
	revoker TokenRevoker
}

func NewAuthService(revoker TokenRevoker) AuthService {
	return &authServiceImpl{revoker: revoker}
}

// Logout 签名写入黑名单，过期时间与 Token 剩余有效期一致
func (s *authServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		return ErrUnauthenticated
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return ErrUnauthenticated
	}
	return s.revoker.Revoke(ctx, signature, security.RemainingTTL(claims))
}
