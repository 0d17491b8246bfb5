package dto

import "time"

// ========== Notification 相关 DTO ==========

// NotificationData 应用内通知数据
type NotificationData struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	RelatedID string    `json:"related_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListQuery 通知列表查询参数
type NotificationListQuery struct {
	UnreadOnly bool `query:"unread_only"`
	Limit      int  `query:"limit"`
}

// UnreadCountData 未读数量数据
type UnreadCountData struct {
	Count int64 `json:"count"`
}
