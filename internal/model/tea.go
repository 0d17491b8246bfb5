package model

// MaxCommentLength 评论最大长度（按 unicode 字符计）
const MaxCommentLength = 280

// TeaPost 茶照动态模型，验证通过的提交会生成一条对好友可见的动态
type TeaPost struct {
	BaseModel
	PublicID     int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID       int64  `gorm:"not null;index:idx_tea_posts_user" json:"user_id"`
	SubmissionID int64  `gorm:"uniqueIndex;not null" json:"submission_id"`
	ImageRef     string `gorm:"type:varchar(512);not null" json:"image_ref"`
	TeaType      string `gorm:"type:varchar(64);not null;default:''" json:"tea_type"`
	Location     string `gorm:"type:varchar(128);not null;default:''" json:"location,omitempty"`
	Caption      string `gorm:"type:varchar(255);not null;default:''" json:"caption"`
	LikeCount    int    `gorm:"not null;default:0" json:"like_count"`
	CommentCount int    `gorm:"not null;default:0" json:"comment_count"`
}

// TableName 指定表名
func (TeaPost) TableName() string {
	return "tea_posts"
}

// TeaLike 点赞记录，同一用户对同一动态只计一次
type TeaLike struct {
	BaseModel
	PostID int64 `gorm:"not null;uniqueIndex:uidx_tea_likes_post_user" json:"post_id"`
	UserID int64 `gorm:"not null;uniqueIndex:uidx_tea_likes_post_user" json:"user_id"`
}

// TableName 指定表名
func (TeaLike) TableName() string {
	return "tea_likes"
}

// TeaComment 评论记录
type TeaComment struct {
	BaseModel
	PublicID int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	PostID   int64  `gorm:"not null;index:idx_tea_comments_post" json:"post_id"`
	UserID   int64  `gorm:"not null" json:"user_id"`
	Content  string `gorm:"type:varchar(280);not null" json:"content"`
}

// TableName 指定表名
func (TeaComment) TableName() string {
	return "tea_comments"
}
