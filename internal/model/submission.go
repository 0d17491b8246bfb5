package model

import "time"

// SubmissionStatus 提交状态枚举
type SubmissionStatus string

const (
	SubmissionStatusAwaitingWindow      SubmissionStatus = "awaiting_window"      // 今日窗口未开
	SubmissionStatusWindowOpen          SubmissionStatus = "window_open"          // 窗口开启，可提交
	SubmissionStatusPendingVerification SubmissionStatus = "pending_verification" // 已提交，等待识别结果
	SubmissionStatusVerified            SubmissionStatus = "verified"             // 识别通过，终态
	SubmissionStatusRejected            SubmissionStatus = "rejected"             // 识别未通过，窗口内可重试
	SubmissionStatusMissed              SubmissionStatus = "missed"               // 窗口关闭未通过，终态
)

// IsTerminal 判断是否终态
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusVerified || s == SubmissionStatusMissed
}

// submissionTransitions 状态机的全部合法迁移，条件更新的 WHERE 条件由此派生
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionStatusAwaitingWindow:      {SubmissionStatusWindowOpen, SubmissionStatusPendingVerification, SubmissionStatusMissed},
	SubmissionStatusWindowOpen:          {SubmissionStatusPendingVerification, SubmissionStatusMissed},
	SubmissionStatusPendingVerification: {SubmissionStatusVerified, SubmissionStatusRejected, SubmissionStatusWindowOpen, SubmissionStatusMissed},
	SubmissionStatusRejected:            {SubmissionStatusPendingVerification, SubmissionStatusMissed},
	SubmissionStatusVerified:            {},
	SubmissionStatusMissed:              {},
}

var submissionStatusOrder = []SubmissionStatus{
	SubmissionStatusAwaitingWindow,
	SubmissionStatusWindowOpen,
	SubmissionStatusPendingVerification,
	SubmissionStatusVerified,
	SubmissionStatusRejected,
	SubmissionStatusMissed,
}

// CanTransition 判断从当前状态迁移到 to 是否合法，终态不接受任何迁移
func (s SubmissionStatus) CanTransition(to SubmissionStatus) bool {
	for _, t := range submissionTransitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

// StatusesAllowing 返回允许迁移到 to 的全部前置状态，供条件更新的 IN 列表使用
func StatusesAllowing(to SubmissionStatus) []string {
	var from []string
	for _, s := range submissionStatusOrder {
		if s.CanTransition(to) {
			from = append(from, string(s))
		}
	}
	return from
}

// DailySubmission 每日茶歇提交记录模型
type DailySubmission struct {
	BaseModel
	UserID         int64            `gorm:"not null;uniqueIndex:uidx_daily_submissions_user_date" json:"user_id"`
	SubmissionDate string           `gorm:"type:date;not null;uniqueIndex:uidx_daily_submissions_user_date" json:"submission_date"`
	Status         SubmissionStatus `gorm:"type:varchar(24);not null;default:'awaiting_window';index:idx_daily_submissions_status" json:"status"`
	ImageRef       string           `gorm:"type:varchar(512);not null;default:''" json:"image_ref"`
	TeaType        string           `gorm:"type:varchar(64);not null;default:''" json:"tea_type"` // 提交时申报的茶类
	Location       string           `gorm:"type:varchar(128);not null;default:''" json:"location,omitempty"`
	Feedback       string           `gorm:"type:varchar(255);not null;default:''" json:"feedback"` // 最近一次识别反馈
	Attempts       int              `gorm:"not null;default:0" json:"attempts"`
	SubmittedAt    *time.Time       `gorm:"type:timestamptz" json:"submitted_at,omitempty"`
	VerifiedAt     *time.Time       `gorm:"type:timestamptz" json:"verified_at,omitempty"`
}

// TableName 指定表名
func (DailySubmission) TableName() string {
	return "daily_submissions"
}
