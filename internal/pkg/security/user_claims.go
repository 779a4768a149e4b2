package security

import (
	"Gavel/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret         = []byte("gavel-dev-secret")
	jwtIssuer         = "Gavel"
	jwtExpirationTime = 72 * time.Hour
)

// UserClaims Token 中携带的用户身份
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Setup 使用配置覆盖默认的签名密钥与有效期
func Setup(cfg config.JWTConfig) {
	if cfg.Secret != "" {
		jwtSecret = []byte(cfg.Secret)
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
	if cfg.ExpireHours > 0 {
		jwtExpirationTime = time.Duration(cfg.ExpireHours) * time.Hour
	}
}
