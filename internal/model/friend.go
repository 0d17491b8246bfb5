package model

// FriendshipStatus 好友关系状态枚举
type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"  // 等待对方接受
	FriendshipStatusAccepted FriendshipStatus = "accepted" // 已成为好友
)

// Friendship 好友关系模型
// RequesterID 为发起方，AddresseeID 为接收方，一对用户至多一条记录
type Friendship struct {
	BaseModel
	RequesterID int64            `gorm:"not null;uniqueIndex:uidx_friendships_pair" json:"requester_id"`
	AddresseeID int64            `gorm:"not null;uniqueIndex:uidx_friendships_pair;index:idx_friendships_addressee" json:"addressee_id"`
	Status      FriendshipStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_friendships_status" json:"status"`
}

// TableName 指定表名
func (Friendship) TableName() string {
	return "friendships"
}
