package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/internal/service"
	"TeatimeAuthority/pkg/response"
)

// ListNotifications 查询应用内通知
// GET /v1/notifications
func ListNotifications(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	var q dto.NotificationListQuery
	if err := c.BindAndValidate(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Notify().List(ctx, userID, &q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetUnreadCount 未读通知数，客户端角标用
// GET /v1/notifications/unread-count
func GetUnreadCount(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	count, err := service.Notify().UnreadCount(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, dto.UnreadCountData{Count: count})
}

// MarkNotificationRead 标记单条通知为已读
// POST /v1/notifications/:notification_id/read
func MarkNotificationRead(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	notificationID, ok := pathID(ctx, c, "notification_id")
	if !ok {
		return
	}

	if err := service.Notify().MarkRead(ctx, userID, notificationID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// MarkAllNotificationsRead 全部标记已读
// POST /v1/notifications/read-all
func MarkAllNotificationsRead(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	if err := service.Notify().MarkAllRead(ctx, userID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
