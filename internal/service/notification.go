package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/internal/queue"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/metrics"
	"TeatimeAuthority/pkg/snowflake"
	"TeatimeAuthority/storage/database"
)

var (
	notifyService *NotifyService
	notifyOnce    sync.Once
)

func Notify() *NotifyService {
	notifyOnce.Do(func() {
		notifyService = &NotifyService{}
	})
	return notifyService
}

type NotifyService struct{}

// Emit 落库应用内通知并投递推送消息，fire-and-forget：失败只记日志
func (s *NotifyService) Emit(ctx context.Context, userID int64, notificationType model.NotificationType, content string, relatedID int64) {
	db := database.DB().WithContext(ctx)

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeMessage)
	if err != nil {
		logger.Logger.Error("Failed to generate notification ID", zap.Error(err))
		return
	}

	notification := &model.Notification{
		PublicID:  publicID,
		UserID:    userID,
		Type:      notificationType,
		Content:   content,
		RelatedID: relatedID,
	}
	if err := db.Create(notification).Error; err != nil {
		logger.Logger.Error("Failed to persist notification",
			zap.Int64("user_id", userID),
			zap.String("type", string(notificationType)),
			zap.Error(err),
		)
		return
	}

	metrics.RecordNotificationSent(string(notificationType))

	err = queue.PublishPushNotification(&model.PushMessage{
		MessageID: uuid.NewString(),
		UserID:    userID,
		Type:      string(notificationType),
		Content:   content,
		RelatedID: relatedID,
	})
	if err != nil {
		logger.Logger.Warn("Failed to publish push message",
			zap.Int64("user_id", userID),
			zap.String("type", string(notificationType)),
			zap.Error(err),
		)
	}
}

// List 查询通知列表
func (s *NotifyService) List(ctx context.Context, publicID int64, q *dto.NotificationListQuery) ([]dto.NotificationData, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	db := database.DB().WithContext(ctx)
	tx := db.Where("user_id = ?", user.ID)
	if q.UnreadOnly {
		tx = tx.Where("read = ?", false)
	}

	var notifications []model.Notification
	if err := tx.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}

	results := make([]dto.NotificationData, 0, len(notifications))
	for _, n := range notifications {
		data := dto.NotificationData{
			ID:        fmt.Sprintf("%d", n.PublicID),
			Type:      string(n.Type),
			Content:   n.Content,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if n.RelatedID != 0 {
			data.RelatedID = fmt.Sprintf("%d", n.RelatedID)
		}
		results = append(results, data)
	}
	return results, nil
}

// UnreadCount 统计未读通知数量
func (s *NotifyService) UnreadCount(ctx context.Context, publicID int64) (int64, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return 0, err
	}

	db := database.DB().WithContext(ctx)

	var count int64
	err = db.Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead 标记单条通知已读
func (s *NotifyService) MarkRead(ctx context.Context, publicID, notificationPublicID int64) error {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	db := database.DB().WithContext(ctx)

	err = db.Model(&model.Notification{}).
		Where("public_id = ? AND user_id = ?", notificationPublicID, user.ID).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead 标记所有通知已读
func (s *NotifyService) MarkAllRead(ctx context.Context, publicID int64) error {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	db := database.DB().WithContext(ctx)

	err = db.Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", user.ID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
