package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/snowflake"
	"TeatimeAuthority/storage/mq"
)

// PublishTeatimeReminder 发布茶歇前置提醒消息（延迟消息）
func PublishTeatimeReminder(msg model.TeatimeReminderMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("date", msg.Date),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("teatime_reminder_%d", id)
	}

	delay := time.Duration(msg.DelaySeconds) * time.Second

	err := mq.PublishDelayedMessage(
		mq.ExchangeDelayed,
		mq.QueueTeatimeReminder,
		delay,
		msg,
	)
	if err != nil {
		logger.Logger.Error("Failed to publish teatime reminder message",
			zap.String("date", msg.Date),
			zap.Int("user_count", len(msg.UserIDs)),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published teatime reminder message",
		zap.String("message_id", msg.MessageID),
		zap.String("date", msg.Date),
		zap.Int("user_count", len(msg.UserIDs)),
		zap.Duration("delay", delay),
	)

	return nil
}

// PublishWindowOpen 发布窗口开启消息（延迟消息）
func PublishWindowOpen(msg model.WindowOpenMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("date", msg.Date),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("window_open_%d", id)
	}

	delay := time.Duration(msg.DelaySeconds) * time.Second

	err := mq.PublishDelayedMessage(
		mq.ExchangeDelayed,
		mq.QueueWindowOpen,
		delay,
		msg,
	)
	if err != nil {
		logger.Logger.Error("Failed to publish window open message",
			zap.String("date", msg.Date),
			zap.Int("user_count", len(msg.UserIDs)),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published window open message",
		zap.String("message_id", msg.MessageID),
		zap.String("date", msg.Date),
		zap.Int("user_count", len(msg.UserIDs)),
		zap.Duration("delay", delay),
	)

	return nil
}

// PublishWindowClose 发布窗口关闭消息（延迟消息）
// 窗口关闭是单条定时投递，不做逐秒轮询
func PublishWindowClose(msg model.WindowCloseMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			logger.Logger.Error("Failed to generate message ID",
				zap.String("date", msg.Date),
				zap.Error(err),
			)
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("window_close_%d", id)
	}

	delay := time.Duration(msg.DelaySeconds) * time.Second

	// RabbitMQ 延迟消息插件的实际可用上限
	if delay > 24*time.Hour {
		return fmt.Errorf("delay %v exceeds 24 hours limit", delay)
	}

	err := mq.PublishDelayedMessage(
		mq.ExchangeDelayed,
		mq.QueueWindowClose,
		delay,
		msg,
	)
	if err != nil {
		logger.Logger.Error("Failed to publish window close message",
			zap.String("date", msg.Date),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published window close message",
		zap.String("message_id", msg.MessageID),
		zap.String("date", msg.Date),
		zap.Duration("delay", delay),
	)

	return nil
}

// PublishPushNotification 发布推送投递消息
func PublishPushNotification(msg *model.PushMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("push_%d", id)
	}

	routingKey := fmt.Sprintf("notification.push.%s", msg.Type)

	err := mq.PublishMessage(
		mq.ExchangeNotification,
		routingKey,
		msg,
	)
	if err != nil {
		logger.Logger.Error("Failed to publish push message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return err
	}

	return nil
}
