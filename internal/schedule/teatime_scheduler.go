package schedule

// 茶歇调度器：每天扫描活跃用户，为当日窗口投放提醒、开窗、关窗三条延迟消息
// 关窗是一条定时投递的消息，不做逐秒轮询

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"TeatimeAuthority/config"
	"TeatimeAuthority/internal/cache"
	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/internal/queue"
	"TeatimeAuthority/internal/service"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/teatime"
	"TeatimeAuthority/storage/database"
)

var (
	schedulerOnce sync.Once
	schedulerInst *TeatimeScheduler
)

type TeatimeScheduler struct {
	logger     *zap.Logger
	jobRunning bool
	jobMu      sync.Mutex
	lastRunAt  time.Time
}

func GetScheduler() *TeatimeScheduler {
	schedulerOnce.Do(func() {
		schedulerInst = &TeatimeScheduler{
			logger: logger.Logger,
		}
	})
	return schedulerInst
}

// ScheduleDailyTeatime 为当日窗口投放延迟消息，重复调用幂等
func (s *TeatimeScheduler) ScheduleDailyTeatime(ctx context.Context) error {
	s.jobMu.Lock()
	if s.jobRunning {
		s.jobMu.Unlock()
		s.logger.Info("Teatime scheduler already running, skipping")
		return nil
	}
	s.jobRunning = true
	s.jobMu.Unlock()

	defer func() {
		s.jobMu.Lock()
		s.jobRunning = false
		s.jobMu.Unlock()
	}()

	startTime := time.Now()
	s.lastRunAt = startTime

	today := teatime.DateKey(startTime)
	eval := teatime.Evaluate(startTime, service.WindowConfig())

	if !startTime.Before(eval.ClosesAt) {
		s.logger.Info("Teatime window already closed for today, nothing to schedule",
			zap.String("date", today),
		)
		return nil
	}

	scheduled, err := cache.IsTeatimeScheduled(ctx, today)
	if err != nil {
		s.logger.Warn("Failed to check teatime scheduled status",
			zap.String("date", today),
			zap.Error(err),
		)
		// 检查失败时继续调度，消息消费侧有幂等保护
	} else if scheduled {
		s.logger.Info("Teatime already scheduled for today, skipping",
			zap.String("date", today),
		)
		return nil
	}

	s.logger.Info("Starting teatime scheduler",
		zap.String("date", today),
		zap.Time("opens_at", eval.OpensAt),
		zap.Time("closes_at", eval.ClosesAt),
	)

	userIDs, err := s.listActiveUserIDs(ctx)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		s.logger.Info("No active users to schedule")
		return nil
	}

	scheduledAt := startTime.Format(time.RFC3339)

	// 提醒消息：开窗前的固定提前量，已过提醒时刻则跳过
	reminderAt := eval.OpensAt.Add(-time.Duration(config.Cfg.ReminderLeadMinutes) * time.Minute)
	if startTime.Before(reminderAt) {
		err := queue.PublishTeatimeReminder(model.TeatimeReminderMessage{
			Date:         today,
			ScheduledAt:  scheduledAt,
			UserIDs:      userIDs,
			DelaySeconds: delaySeconds(startTime, reminderAt),
		})
		if err != nil {
			return fmt.Errorf("failed to schedule teatime reminder: %w", err)
		}
	}
	if err := cache.MarkReminderScheduled(ctx, today); err != nil {
		s.logger.Warn("Failed to mark reminder scheduled", zap.Error(err))
	}

	if err := queue.PublishWindowOpen(model.WindowOpenMessage{
		Date:         today,
		ScheduledAt:  scheduledAt,
		UserIDs:      userIDs,
		DelaySeconds: delaySeconds(startTime, eval.OpensAt),
	}); err != nil {
		return fmt.Errorf("failed to schedule window open: %w", err)
	}
	if err := cache.MarkWindowOpenScheduled(ctx, today); err != nil {
		s.logger.Warn("Failed to mark window open scheduled", zap.Error(err))
	}

	if err := queue.PublishWindowClose(model.WindowCloseMessage{
		Date:         today,
		ScheduledAt:  scheduledAt,
		DelaySeconds: delaySeconds(startTime, eval.ClosesAt),
	}); err != nil {
		return fmt.Errorf("failed to schedule window close: %w", err)
	}
	if err := cache.MarkWindowCloseScheduled(ctx, today); err != nil {
		s.logger.Warn("Failed to mark window close scheduled", zap.Error(err))
	}

	s.logger.Info("Teatime scheduler completed",
		zap.String("date", today),
		zap.Int("user_count", len(userIDs)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return nil
}

func (s *TeatimeScheduler) listActiveUserIDs(ctx context.Context) ([]int64, error) {
	db := database.DB().WithContext(ctx)

	var userIDs []int64
	err := db.Model(&model.User{}).
		Where("status = ?", model.UserStatusActive).
		Pluck("id", &userIDs).Error
	if err != nil {
		s.logger.Error("Failed to query active users", zap.Error(err))
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}
	return userIDs, nil
}

func delaySeconds(now, target time.Time) int {
	d := int(target.Sub(now) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}
