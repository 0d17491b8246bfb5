package dto

import "time"

// ========== Fine / Donation 相关 DTO ==========

// FineData 罚款数据
type FineData struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"` // 对应的茶歇日期
	OffenseCount int        `json:"offense_count"`
	AmountPence  int64      `json:"amount_pence"`
	Status       string     `json:"status"`
	DueAt        time.Time  `json:"due_at"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`

	Donation *DonationData `json:"donation,omitempty"` // 最近一次捐赠凭证
}

// FineListQuery 罚款列表查询参数
type FineListQuery struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
}

// PayFineResponse 缴纳罚款响应
type PayFineResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	AmountPence int64     `json:"amount_pence"`
	PaidAt      time.Time `json:"paid_at"`
}

// SubmitDonationRequest 提交捐赠凭证请求
type SubmitDonationRequest struct {
	Charity     string `json:"charity" binding:"required"`
	AmountPence int64  `json:"amount_pence" binding:"required"`
	ImageRef    string `json:"image_ref" binding:"required"`
}

// DonationData 捐赠凭证数据
type DonationData struct {
	ID          string     `json:"id"`
	FineID      string     `json:"fine_id"`
	Charity     string     `json:"charity"`
	AmountPence int64      `json:"amount_pence"`
	Status      string     `json:"status"`
	Feedback    string     `json:"feedback,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

// CharityData 受支持的慈善机构
type CharityData struct {
	Name string `json:"name"`
}
