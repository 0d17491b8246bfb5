package dto

import "time"

// ========== Tea Feed 相关 DTO ==========

// TeaPostData 茶照动态数据
type TeaPostData struct {
	ID           string    `json:"id"`
	User         PostUser  `json:"user"`
	ImageURL     string    `json:"image_url"`
	TeaType      string    `json:"tea_type,omitempty"`
	Location     string    `json:"location,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	LikedByMe    bool      `json:"liked_by_me"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostUser 动态作者摘要
type PostUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// FeedQuery 动态流查询参数
type FeedQuery struct {
	Limit  int    `query:"limit"`
	Cursor string `query:"cursor"` // 上一页最后一条的 created_at，RFC3339
}

// FeedResponse 动态流响应
type FeedResponse struct {
	Posts      []TeaPostData `json:"posts"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentData 评论数据
type CommentData struct {
	ID        string    `json:"id"`
	User      PostUser  `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
