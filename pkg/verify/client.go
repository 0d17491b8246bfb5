package verify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"TeatimeAuthority/config"
	"TeatimeAuthority/pkg/logger"
)

// RequestContext 审核场景
type RequestContext string

const (
	ContextTea             RequestContext = "tea"
	ContextDonationReceipt RequestContext = "donation_receipt"
)

// Request 一次照片审核请求
type Request struct {
	Context RequestContext
	// ImageRef 是图片存储返回的不透明引用，审核端自行取图
	ImageRef string
	// ExpectedAmountPence 仅捐赠回执场景使用
	ExpectedAmountPence int64
}

// Result 审核结论。Feedback 在拒绝时给出用户可读的原因。
type Result struct {
	Valid    bool
	Feedback string
}

// ProgressFunc 审核进度回调，value 单调递增，取值 [0, 1]。
// 回调在审核 goroutine 内同步执行，实现方不应阻塞。
type ProgressFunc func(value float64)

// Client 照片审核客户端接口
type Client interface {
	// Verify 阻塞直至得出结论或 ctx 取消。
	// 传输层失败返回 error，此时不应推进任何业务状态。
	Verify(ctx context.Context, req Request, progress ProgressFunc) (Result, error)
}

var (
	verifyClient Client
	verifyOnce   sync.Once
	verifyErr    error
)

// Init 按配置初始化审核客户端
func Init() error {
	verifyOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.VerifierProvider {
		case "vision":
			verifyClient, verifyErr = NewVisionClient()
		case "mock":
			verifyClient = NewMockClient(cfg.MockVerifierSeed)
		default:
			verifyErr = fmt.Errorf("unsupported verifier provider: %s", cfg.VerifierProvider)
		}

		if verifyErr != nil {
			logger.Logger.Error("Failed to initialize verify client", zap.Error(verifyErr))
			return
		}

		logger.Logger.Info("Verify client initialized successfully",
			zap.String("provider", cfg.VerifierProvider),
		)
	})

	return verifyErr
}

func GetClient() Client {
	if verifyClient == nil {
		panic("verify client not initialized, call verify.Init() first")
	}
	return verifyClient
}

// SetClient 测试时替换客户端
func SetClient(c Client) {
	verifyClient = c
}

func Verify(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	return GetClient().Verify(ctx, req, progress)
}
