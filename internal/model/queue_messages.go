package model

// TeatimeReminderMessage 茶歇前置提醒消息，窗口开启前一段时间触达用户
type TeatimeReminderMessage struct {
	MessageID    string  `json:"message_id"` // 消息唯一ID，用于幂等性检查
	Date         string  `json:"date"`       // 茶歇日期 "2006-01-02"
	ScheduledAt  string  `json:"scheduled_at"`
	UserIDs      []int64 `json:"user_ids"`
	DelaySeconds int     `json:"delay_seconds"`
}

// WindowOpenMessage 窗口开启消息，把当日记录推进到 window_open
type WindowOpenMessage struct {
	MessageID    string  `json:"message_id"` // 消息唯一ID，用于幂等性检查
	Date         string  `json:"date"`
	ScheduledAt  string  `json:"scheduled_at"`
	UserIDs      []int64 `json:"user_ids"`
	DelaySeconds int     `json:"delay_seconds"`
}

// WindowCloseMessage 窗口关闭消息，未通过的记录标记 missed 并开出罚款
type WindowCloseMessage struct {
	MessageID    string  `json:"message_id"` // 消息唯一ID，用于幂等性检查
	Date         string  `json:"date"`
	ScheduledAt  string  `json:"scheduled_at"`
	UserIDs      []int64 `json:"user_ids"`
	DelaySeconds int     `json:"delay_seconds"`
}

// PushMessage 推送投递消息，由通知服务落库后异步投递到推送渠道
type PushMessage struct {
	MessageID string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	UserID    int64  `json:"user_id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	RelatedID int64  `json:"related_id"`
}
