package dto

import "time"

// ========== Submission 相关 DTO ==========

// TodaySubmissionData 今日提交状态数据
type TodaySubmissionData struct {
	Date        string     `json:"date"`
	Status      string     `json:"status"`
	ImageURL    string     `json:"image_url,omitempty"`
	TeaType     string     `json:"tea_type,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	Attempts    int        `json:"attempts"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`

	Window WindowData `json:"window"`
}

// WindowData 窗口信息
type WindowData struct {
	Open                 bool      `json:"open"`
	OpensAt              time.Time `json:"opens_at"`
	ClosesAt             time.Time `json:"closes_at"`
	SecondsUntilNextOpen int64     `json:"seconds_until_next_open"`
}

// SubmitTeaRequest 提交茶照请求，茶照 = 图片 + 申报的茶类
type SubmitTeaRequest struct {
	ImageRef string `json:"image_ref" binding:"required"`
	TeaType  string `json:"tea_type" binding:"required"`
	Location string `json:"location"`
}

// SubmitTeaResponse 提交茶照响应
type SubmitTeaResponse struct {
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url"`
	TeaType     string    `json:"tea_type"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// VerificationProgressData 识别进度数据
type VerificationProgressData struct {
	Date     string  `json:"date"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"` // 0.0 - 1.0
	Feedback string  `json:"feedback,omitempty"`
}

// SubmissionHistoryQuery 提交历史查询参数
type SubmissionHistoryQuery struct {
	From   string `query:"from"`
	To     string `query:"to"`
	Status string `query:"status"`
	Limit  int    `query:"limit"`
}

// SubmissionHistoryItem 提交历史条目
type SubmissionHistoryItem struct {
	Date       string     `json:"date"`
	Status     string     `json:"status"`
	ImageURL   string     `json:"image_url,omitempty"`
	TeaType    string     `json:"tea_type,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}
