package dto

// ========== User 相关 DTO ==========

// UserProfileData 用户资料数据
type UserProfileData struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"` // 仅本人可见
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Bio         string `json:"bio"`
	PhotoURL    string `json:"photo_url"`
	FavoriteTea string `json:"favorite_tea"`

	Stats UserStatsData `json:"stats"`
}

// UserStatsData 用户统计数据
type UserStatsData struct {
	TotalDonatedPence int64 `json:"total_donated_pence"`
	OffenseCount      int   `json:"offense_count"`
	TeaPostCount      int64 `json:"tea_post_count"`
	FriendCount       int64 `json:"friend_count"`
}

// UpdateProfileRequest 更新资料请求，nil 字段保持不变
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	Bio         *string `json:"bio"`
	PhotoURL    *string `json:"photo_url"`
	FavoriteTea *string `json:"favorite_tea"`
}

// UserSearchQuery 用户搜索查询参数
type UserSearchQuery struct {
	Query string `query:"q"`
	Limit int    `query:"limit"`
}
