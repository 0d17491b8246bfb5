package model

import "time"

// FineStatus 罚款状态枚举
type FineStatus string

const (
	FineStatusPending FineStatus = "pending" // 待处理
	FineStatusPaid    FineStatus = "paid"    // 已缴纳，终态
	FineStatusDonated FineStatus = "donated" // 已通过捐赠抵扣，终态
)

// IsTerminal 判断是否终态
func (s FineStatus) IsTerminal() bool {
	return s == FineStatusPaid || s == FineStatusDonated
}

// Fine 罚款模型，一条 missed 提交记录至多对应一条罚款
type Fine struct {
	BaseModel
	PublicID     int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID       int64      `gorm:"not null;index:idx_fines_user_status" json:"user_id"`
	SubmissionID int64      `gorm:"uniqueIndex;not null" json:"submission_id"`
	OffenseCount int        `gorm:"not null" json:"offense_count"`
	AmountPence  int64      `gorm:"not null" json:"amount_pence"`
	Status       FineStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_fines_user_status" json:"status"`
	DueAt        time.Time  `gorm:"type:timestamptz;not null" json:"due_at"`
	PaidAt       *time.Time `gorm:"type:timestamptz" json:"paid_at,omitempty"`
}

// TableName 指定表名
func (Fine) TableName() string {
	return "fines"
}

// DonationStatus 捐赠凭证状态枚举
type DonationStatus string

const (
	DonationStatusPending  DonationStatus = "pending"  // 凭证识别中
	DonationStatusAccepted DonationStatus = "accepted" // 凭证通过
	DonationStatusRejected DonationStatus = "rejected" // 凭证未通过，可重新提交
	DonationStatusVoided   DonationStatus = "voided"   // 识别服务不可用，凭证作废，未计入结论
)

// Donation 捐赠凭证模型
type Donation struct {
	BaseModel
	PublicID        int64          `gorm:"uniqueIndex;not null" json:"public_id"`
	FineID          int64          `gorm:"not null;index:idx_donations_fine" json:"fine_id"`
	UserID          int64          `gorm:"not null;index:idx_donations_user" json:"user_id"`
	Charity         string         `gorm:"type:varchar(64);not null" json:"charity"`
	AmountPence     int64          `gorm:"not null" json:"amount_pence"`
	ReceiptImageRef string         `gorm:"type:varchar(512);not null" json:"receipt_image_ref"`
	Status          DonationStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_donations_status" json:"status"`
	Feedback        string         `gorm:"type:varchar(255);not null;default:''" json:"feedback"`
	ResolvedAt      *time.Time     `gorm:"type:timestamptz" json:"resolved_at,omitempty"`
}

// TableName 指定表名
func (Donation) TableName() string {
	return "donations"
}
