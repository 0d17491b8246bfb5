package model

// NotificationType 应用内通知类型枚举
type NotificationType string

const (
	NotificationTypeTeatimeReminder  NotificationType = "teatime_reminder"
	NotificationTypeWindowOpen       NotificationType = "window_open"
	NotificationTypeVerified         NotificationType = "verified"
	NotificationTypeRejected         NotificationType = "rejected"
	NotificationTypeFine             NotificationType = "fine"
	NotificationTypeFinePaid         NotificationType = "fine_paid"
	NotificationTypeDonationAccepted NotificationType = "donation_accepted"
	NotificationTypeDonationRejected NotificationType = "donation_rejected"
	NotificationTypeFriendRequest    NotificationType = "friend_request"
	NotificationTypeFriendAccepted   NotificationType = "friend_accepted"
	NotificationTypeLike             NotificationType = "like"
	NotificationTypeComment          NotificationType = "comment"
)

// Notification 应用内通知模型
type Notification struct {
	BaseModel
	PublicID  int64            `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID    int64            `gorm:"not null;index:idx_notifications_user_read" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	Content   string           `gorm:"type:varchar(255);not null" json:"content"`
	RelatedID int64            `gorm:"not null;default:0" json:"related_id"` // 关联实体的 public_id，视 Type 而定
	Read      bool             `gorm:"not null;default:false;index:idx_notifications_user_read" json:"read"`
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
