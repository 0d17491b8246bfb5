package verify

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

// 拒绝原因沿用审核端的固定话术
var teaRejectionReasons = []string{
	"No teacup detected in the photo. Please retake with your tea clearly visible.",
	"The beverage does not appear to be tea. Coffee does not count.",
	"Photo is too blurry to verify. Please hold the camera steady.",
	"The cup appears to be empty. Brew a fresh cup and try again.",
}

var receiptRejectionReasons = []string{
	"Receipt amount could not be read. Please photograph the full receipt.",
	"The charity name on the receipt is not legible.",
	"Receipt date is outside the accepted range.",
}

// MockClient 可配置的审核客户端 mock，实现 Client 接口。
// 默认行为模拟真实服务：约 2 秒延迟，每 100ms 回报一次进度。
type MockClient struct {
	mu    sync.Mutex
	rng   *rand.Rand
	Calls []Request

	// Latency 为 0 时使用默认 2 秒
	Latency time.Duration
	// PassRate 审核通过概率，默认 0.8
	PassRate float64
	// ForceResult 置非 nil 时跳过随机，直接返回该结论
	ForceResult *Result
	// FailNext 置为 true 时，下一次调用返回传输错误并自动复位
	FailNext bool
}

func NewMockClient(seed int64) *MockClient {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MockClient{
		rng:      rand.New(rand.NewSource(seed)),
		Calls:    make([]Request, 0),
		Latency:  2 * time.Second,
		PassRate: 0.8,
	}
}

func (m *MockClient) Verify(ctx context.Context, req Request, progress ProgressFunc) (Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)

	if m.FailNext {
		m.FailNext = false
		m.mu.Unlock()
		return Result{}, errors.New("mock verification transport failure")
	}

	latency := m.Latency
	if latency <= 0 {
		latency = 2 * time.Second
	}
	pass := m.rng.Float64() < m.PassRate
	reasonIdx := m.rng.Intn(len(teaRejectionReasons))
	receiptIdx := m.rng.Intn(len(receiptRejectionReasons))
	forced := m.ForceResult
	m.mu.Unlock()

	// 进度按固定步进单调上升，最后一步由结论返回前补齐
	const steps = 20
	tick := latency / steps
	for i := 1; i < steps; i++ {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(tick):
		}
		if progress != nil {
			progress(float64(i) / steps)
		}
	}
	if progress != nil {
		progress(1)
	}

	if forced != nil {
		return *forced, nil
	}

	if pass {
		return Result{Valid: true}, nil
	}

	switch req.Context {
	case ContextDonationReceipt:
		return Result{Valid: false, Feedback: receiptRejectionReasons[receiptIdx]}, nil
	default:
		return Result{Valid: false, Feedback: teaRejectionReasons[reasonIdx]}, nil
	}
}
