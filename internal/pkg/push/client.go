package push

import (
	"Gavel/internal/api/config"
	"Gavel/internal/pkg/logger"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// Message 推送内容，URL 为点击后打开的案件链接
type Message struct {
	Title  string `json:"title"`
	CaseID uint64 `json:"case_id"`
	URL    string `json:"url"`
}

type sendRequest struct {
	UserKey string  `json:"user_key"`
	Message Message `json:"message"`
}

// Sender 推送通道
type Sender interface {
	SendPush(ctx context.Context, userKey string, msg Message) error
}

// GatewayClient 通过 HTTP 推送网关下发通知
type GatewayClient struct {
	client  *resty.Client
	limiter *rate.Limiter
}

func NewGatewayClient(cfg config.PushConfig) *GatewayClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetTransport(logger.NewHTTPTransport("push")).
		SetBaseURL(strings.TrimRight(cfg.GatewayURL, "/")).
		SetTimeout(timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &GatewayClient{
		client:  client,
		limiter: rate.NewLimiter(limit, max(cfg.RatePerSecond, 1)),
	}
}

// SendPush 单次尝试，不做重试
func (s *GatewayClient) SendPush(ctx context.Context, userKey string, msg Message) error {
	if userKey == "" {
		return fmt.Errorf("push: empty user key")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(sendRequest{UserKey: userKey, Message: msg}).
		Post("/v1/push")
	if err != nil {
		return fmt.Errorf("push: request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("push: gateway returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// CaseLink 拼接案件详情页链接
func CaseLink(base string, caseID uint64) string {
	return fmt.Sprintf("%s/cases/%d", strings.TrimRight(base, "/"), caseID)
}
