package dto

import "time"

// ========== Friend 相关 DTO ==========

// FriendRequestCreate 发起好友请求
type FriendRequestCreate struct {
	Username string `json:"username" binding:"required"`
}

// FriendData 好友数据
type FriendData struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	FavoriteTea string `json:"favorite_tea,omitempty"`
}

// FriendRequestData 待处理的好友请求数据
type FriendRequestData struct {
	ID        string     `json:"id"`
	From      FriendData `json:"from"`
	CreatedAt time.Time  `json:"created_at"`
}
