package push

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"TeatimeAuthority/config"
	"TeatimeAuthority/pkg/logger"
)

// Notification 待推送到用户设备的通知
type Notification struct {
	UserID    int64  `json:"user_id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	RelatedID int64  `json:"related_id,omitempty"`
}

// Client 推送客户端接口
type Client interface {
	Send(ctx context.Context, n Notification) error
}

var (
	pushClient Client
	pushOnce   sync.Once
	pushErr    error
)

func Init() error {
	pushOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.PushProvider {
		case "webhook":
			pushClient, pushErr = NewWebhookClient(cfg.PushWebhookURL)
		case "mock":
			pushClient = NewMockClient()
		default:
			pushErr = fmt.Errorf("unsupported push provider: %s", cfg.PushProvider)
		}

		if pushErr != nil {
			logger.Logger.Error("Failed to initialize push client", zap.Error(pushErr))
			return
		}

		logger.Logger.Info("Push client initialized successfully",
			zap.String("provider", cfg.PushProvider),
		)
	})

	return pushErr
}

func GetClient() Client {
	if pushClient == nil {
		panic("push client not initialized, call push.Init() first")
	}
	return pushClient
}

// SetClient 测试时替换客户端
func SetClient(c Client) {
	pushClient = c
}

func Send(ctx context.Context, n Notification) error {
	return GetClient().Send(ctx, n)
}
