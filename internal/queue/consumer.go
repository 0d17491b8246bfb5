package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"TeatimeAuthority/internal/cache"
	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/metrics"
	"TeatimeAuthority/pkg/push"
	"TeatimeAuthority/storage/mq"
)

// SubmissionLifecycle 窗口开启/关闭的状态推进入口，由 worker 启动时注入，避免循环依赖
type SubmissionLifecycle interface {
	MarkWindowOpenForDate(ctx context.Context, date string, userIDs []int64) error
	MarkMissedForDate(ctx context.Context, date string) error
}

// NotificationEmitter 应用内通知入口
type NotificationEmitter interface {
	Emit(ctx context.Context, userID int64, notificationType model.NotificationType, content string, relatedID int64)
}

var (
	submissionLifecycle SubmissionLifecycle
	notificationEmitter NotificationEmitter
)

// SetSubmissionLifecycle 设置提交生命周期服务（在 worker 启动时调用）
func SetSubmissionLifecycle(s SubmissionLifecycle) {
	submissionLifecycle = s
}

// SetNotificationEmitter 设置通知服务（在 worker 启动时调用）
func SetNotificationEmitter(e NotificationEmitter) {
	notificationEmitter = e
}

// StartTeatimeReminderConsumer 启动茶歇前置提醒消费者
func StartTeatimeReminderConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.TeatimeReminderMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal teatime reminder message: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，可能重复但不阻塞业务
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing teatime reminder",
			zap.String("message_id", msg.MessageID),
			zap.String("date", msg.Date),
			zap.Int("user_count", len(msg.UserIDs)),
		)

		if notificationEmitter == nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("notification emitter not configured")
		}

		for _, userID := range msg.UserIDs {
			notificationEmitter.Emit(ctx, userID, model.NotificationTypeTeatimeReminder,
				"Tea time is approaching. Get your kettle ready!", 0)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueTeatimeReminder,
		ConsumerTag:   "teatime_reminder_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartWindowOpenConsumer 启动窗口开启消费者
func StartWindowOpenConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.WindowOpenMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal window open message: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing window open",
			zap.String("message_id", msg.MessageID),
			zap.String("date", msg.Date),
			zap.Int("user_count", len(msg.UserIDs)),
		)

		if submissionLifecycle == nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("submission lifecycle not configured")
		}

		if err := submissionLifecycle.MarkWindowOpenForDate(ctx, msg.Date, msg.UserIDs); err != nil {
			// 处理失败，取消标记，允许重试
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to open window for %s: %w", msg.Date, err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueWindowOpen,
		ConsumerTag:   "window_open_consumer",
		PrefetchCount: 1,
		Handler:       handler,
	})
}

// StartWindowCloseConsumer 启动窗口关闭消费者，未通过的记录标记 missed 并开罚款
func StartWindowCloseConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.WindowCloseMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal window close message: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !processed {
			logger.Logger.Info("Message already processed or being processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		logger.Logger.Info("Processing window close",
			zap.String("message_id", msg.MessageID),
			zap.String("date", msg.Date),
		)

		if submissionLifecycle == nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("submission lifecycle not configured")
		}

		if err := submissionLifecycle.MarkMissedForDate(ctx, msg.Date); err != nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to close window for %s: %w", msg.Date, err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueWindowClose,
		ConsumerTag:   "window_close_consumer",
		PrefetchCount: 1,
		Handler:       handler,
	})
}

// StartPushDeliveryConsumer 启动推送投递消费者
func StartPushDeliveryConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.PushMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal push message: %w", err)
		}

		processed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !processed {
			return &errors.SkipMessageError{Reason: fmt.Sprintf("Message %s already processed", msg.MessageID)}
		}

		err = push.Send(ctx, push.Notification{
			UserID:    msg.UserID,
			Type:      msg.Type,
			Content:   msg.Content,
			RelatedID: msg.RelatedID,
		})
		if err != nil {
			metrics.RecordPushDelivery("failed")
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to deliver push: %w", err)
		}

		metrics.RecordPushDelivery("delivered")

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueuePushDelivery,
		ConsumerTag:   "push_delivery_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}

// StartAllConsumers 启动全部消费者，每个消费者独占一个 goroutine
func StartAllConsumers(ctx context.Context) {
	consumers := []struct {
		name  string
		start func(context.Context) error
	}{
		{"teatime_reminder", StartTeatimeReminderConsumer},
		{"window_open", StartWindowOpenConsumer},
		{"window_close", StartWindowCloseConsumer},
		{"push_delivery", StartPushDeliveryConsumer},
	}

	for _, c := range consumers {
		go func(name string, start func(context.Context) error) {
			if err := start(ctx); err != nil {
				logger.Logger.Error("Consumer stopped",
					zap.String("consumer", name),
					zap.Error(err),
				)
			}
		}(c.name, c.start)
	}
}
