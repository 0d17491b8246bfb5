package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"TeatimeAuthority/config"
	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/metrics"
	"TeatimeAuthority/pkg/snowflake"
	"TeatimeAuthority/pkg/verify"
	"TeatimeAuthority/storage/database"
	"TeatimeAuthority/utils"
)

// Charities 认可的受捐机构列表
var Charities = []string{
	"Royal British Legion",
	"National Trust",
	"Cancer Research UK",
}

var (
	fineService *FineService
	fineOnce    sync.Once
)

func Fine() *FineService {
	fineOnce.Do(func() {
		fineService = &FineService{}
	})
	return fineService
}

type FineService struct{}

// AmountForOffense 罚款金额：基准额按违规次数翻倍，可选封顶
// amount(n) = base * 2^(n-1)，未配置封顶时在溢出前饱和
func AmountForOffense(basePence, maxPence int64, offenseCount int) int64 {
	if offenseCount < 1 {
		offenseCount = 1
	}

	amount := basePence
	for i := 1; i < offenseCount; i++ {
		if amount > math.MaxInt64/2 {
			break
		}
		amount *= 2
		if maxPence > 0 && amount >= maxPence {
			return maxPence
		}
	}
	if maxPence > 0 && amount > maxPence {
		return maxPence
	}
	return amount
}

// DonationAmountFor 捐赠金额：罚款金额乘以固定比例，四舍五入到便士
func DonationAmountFor(fineAmountPence int64, ratio float64) int64 {
	return int64(math.Round(float64(fineAmountPence) * ratio))
}

// IsRecognizedCharity 检查机构是否在认可列表中
func IsRecognizedCharity(name string) bool {
	for _, c := range Charities {
		if c == name {
			return true
		}
	}
	return false
}

// IssueFine 为 missed 提交开出罚款，幂等：同一提交已有罚款时返回已有记录
func (s *FineService) IssueFine(ctx context.Context, userID, submissionID int64) (*model.Fine, error) {
	db := database.DB().WithContext(ctx)

	var existing model.Fine
	err := db.Where("submission_id = ?", submissionID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query fine: %w", err)
	}

	var fine *model.Fine
	err = db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, userID).Error; err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		offenseCount := user.OffenseCount + 1
		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("offense_count", offenseCount).Error; err != nil {
			return fmt.Errorf("failed to bump offense count: %w", err)
		}

		publicID, err := snowflake.NextID(snowflake.GeneratorTypeEntity)
		if err != nil {
			return fmt.Errorf("failed to generate fine ID: %w", err)
		}

		fine = &model.Fine{
			PublicID:     publicID,
			UserID:       userID,
			SubmissionID: submissionID,
			OffenseCount: offenseCount,
			AmountPence:  AmountForOffense(config.Cfg.FineBaseAmountPence, config.Cfg.FineMaxAmountPence, offenseCount),
			Status:       model.FineStatusPending,
			DueAt:        time.Now().AddDate(0, 0, config.Cfg.FineDueDays),
		}
		if err := tx.Create(fine).Error; err != nil {
			return fmt.Errorf("failed to create fine: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordFineIssued(fine.AmountPence, fine.OffenseCount)

	Notify().Emit(ctx, userID, model.NotificationTypeFine,
		fmt.Sprintf("You missed tea time. A fine of %s has been issued.", utils.FormatPence(fine.AmountPence)),
		fine.PublicID)

	return fine, nil
}

// List 查询用户罚款列表，附带最近一次捐赠凭证
func (s *FineService) List(ctx context.Context, publicID int64, q *dto.FineListQuery) ([]dto.FineData, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	db := database.DB().WithContext(ctx)
	tx := db.Where("user_id = ?", user.ID)
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var fines []model.Fine
	if err := tx.Order("created_at DESC").Limit(limit).Find(&fines).Error; err != nil {
		return nil, fmt.Errorf("failed to query fines: %w", err)
	}

	results := make([]dto.FineData, 0, len(fines))
	for i := range fines {
		data, err := s.buildFineData(ctx, &fines[i])
		if err != nil {
			return nil, err
		}
		results = append(results, *data)
	}
	return results, nil
}

// Get 查询单条罚款
func (s *FineService) Get(ctx context.Context, publicID, finePublicID int64) (*dto.FineData, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	fine, err := s.getOwnedFine(ctx, user.ID, finePublicID)
	if err != nil {
		return nil, err
	}
	return s.buildFineData(ctx, fine)
}

// Pay 缴纳罚款。重复缴纳已 paid 的罚款是幂等空操作，已 donated 的罚款不可缴纳
func (s *FineService) Pay(ctx context.Context, publicID, finePublicID int64) (*dto.PayFineResponse, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	fine, err := s.getOwnedFine(ctx, user.ID, finePublicID)
	if err != nil {
		return nil, err
	}

	switch fine.Status {
	case model.FineStatusPaid:
		// 容忍重复的支付确认
		return &dto.PayFineResponse{
			ID:          fmt.Sprintf("%d", fine.PublicID),
			Status:      string(fine.Status),
			AmountPence: fine.AmountPence,
			PaidAt:      *fine.PaidAt,
		}, nil
	case model.FineStatusDonated:
		return nil, errors.FineNotPayable
	}

	db := database.DB().WithContext(ctx)
	now := time.Now()

	res := db.Model(&model.Fine{}).
		Where("id = ? AND status = ?", fine.ID, string(model.FineStatusPending)).
		Updates(map[string]interface{}{
			"status":  string(model.FineStatusPaid),
			"paid_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to pay fine: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.FineNotPayable
	}

	metrics.RecordFineSettled("paid")

	Notify().Emit(ctx, user.ID, model.NotificationTypeFinePaid,
		fmt.Sprintf("Your fine of %s has been settled. Thank you.", utils.FormatPence(fine.AmountPence)),
		fine.PublicID)

	logger.Logger.Info("Fine paid",
		zap.Int64("fine_id", fine.PublicID),
		zap.Int64("user_id", user.PublicID),
		zap.Int64("amount_pence", fine.AmountPence),
	)

	return &dto.PayFineResponse{
		ID:          fmt.Sprintf("%d", fine.PublicID),
		Status:      string(model.FineStatusPaid),
		AmountPence: fine.AmountPence,
		PaidAt:      now,
	}, nil
}

// SubmitDonation 为 pending 罚款提交捐赠凭证并启动异步识别
// 捐赠金额必须等于罚款金额乘以固定比例；凭证识别本身不改变罚款状态
func (s *FineService) SubmitDonation(ctx context.Context, publicID, finePublicID int64, req *dto.SubmitDonationRequest) (*dto.DonationData, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	fine, err := s.getOwnedFine(ctx, user.ID, finePublicID)
	if err != nil {
		return nil, err
	}
	if fine.Status != model.FineStatusPending {
		return nil, errors.InvalidTransition
	}

	if !IsRecognizedCharity(req.Charity) {
		return nil, errors.CharityNotRecognized
	}

	expected := DonationAmountFor(fine.AmountPence, config.Cfg.DonationRatio)
	if req.AmountPence != expected {
		return nil, errors.DonationAmountMismatch
	}

	db := database.DB().WithContext(ctx)

	var pending model.Donation
	err = db.Where("fine_id = ? AND status = ?", fine.ID, string(model.DonationStatusPending)).
		First(&pending).Error
	if err == nil {
		return nil, errors.DonationPending
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query donations: %w", err)
	}

	donationPublicID, err := snowflake.NextID(snowflake.GeneratorTypeEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate donation ID: %w", err)
	}

	donation := &model.Donation{
		PublicID:        donationPublicID,
		FineID:          fine.ID,
		UserID:          user.ID,
		Charity:         req.Charity,
		AmountPence:     req.AmountPence,
		ReceiptImageRef: req.ImageRef,
		Status:          model.DonationStatusPending,
	}
	if err := db.Create(donation).Error; err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	go s.runReceiptVerification(donation.ID, donation.AmountPence, donation.ReceiptImageRef)

	logger.Logger.Info("Donation receipt submitted",
		zap.Int64("donation_id", donation.PublicID),
		zap.Int64("fine_id", fine.PublicID),
		zap.String("charity", donation.Charity),
	)

	return s.buildDonationData(donation, fine.PublicID), nil
}

// runReceiptVerification 后台识别捐赠凭证并回写结果
func (s *FineService) runReceiptVerification(donationID, amountPence int64, receiptRef string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	result, err := verify.Verify(ctx, verify.Request{
		Context:             verify.ContextDonationReceipt,
		ImageRef:            receiptRef,
		ExpectedAmountPence: amountPence,
	}, nil)

	outcome := "error"
	if err == nil {
		if result.Valid {
			outcome = "accepted"
		} else {
			outcome = "rejected"
		}
	}
	metrics.RecordVerification(string(verify.ContextDonationReceipt), outcome, time.Since(start).Seconds())

	// 传输失败没有结论，凭证作废而不是拒绝，罚款保持 pending
	if err != nil {
		logger.Logger.Error("Receipt verification failed",
			zap.Int64("donation_id", donationID),
			zap.Error(err),
		)
		if verr := s.VoidDonation(ctx, donationID); verr != nil {
			logger.Logger.Error("Failed to void donation after transport failure",
				zap.Int64("donation_id", donationID),
				zap.Error(verr),
			)
		}
		return
	}

	if err := s.ResolveDonationVerification(ctx, donationID, result.Valid, result.Feedback); err != nil {
		logger.Logger.Error("Failed to resolve donation verification",
			zap.Int64("donation_id", donationID),
			zap.Error(err),
		)
	}
}

// donationReceiptFeedback 拒绝时的用户反馈，审核端未给出时退回默认文案
func donationReceiptFeedback(feedback string) string {
	if feedback == "" {
		return errors.ReceiptRejected.Message
	}
	return feedback
}

// VoidDonation 识别服务不可用时作废凭证：没有结论不算拒绝，罚款保持 pending，用户可重新提交
func (s *FineService) VoidDonation(ctx context.Context, donationID int64) error {
	db := database.DB().WithContext(ctx)

	res := db.Model(&model.Donation{}).
		Where("id = ? AND status = ?", donationID, string(model.DonationStatusPending)).
		Updates(map[string]interface{}{
			"status":      string(model.DonationStatusVoided),
			"feedback":    errors.VerificationUnavailable.Message,
			"resolved_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to void donation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// 已有结论落地，作废不再生效
		return nil
	}

	metrics.RecordDonation("voided")
	return nil
}

// ResolveDonationVerification 回写凭证识别结果
// 通过：凭证 accepted、罚款转 donated、累计捐赠额更新；未通过：罚款保持 pending，用户需提交新凭证
func (s *FineService) ResolveDonationVerification(ctx context.Context, donationID int64, verdict bool, feedback string) error {
	db := database.DB().WithContext(ctx)

	var donation model.Donation
	if err := db.First(&donation, donationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.DonationNotFound
		}
		return fmt.Errorf("failed to load donation: %w", err)
	}

	now := time.Now()
	newStatus := model.DonationStatusRejected
	if verdict {
		newStatus = model.DonationStatusAccepted
	} else {
		feedback = donationReceiptFeedback(feedback)
	}

	res := db.Model(&model.Donation{}).
		Where("id = ? AND status = ?", donation.ID, string(model.DonationStatusPending)).
		Updates(map[string]interface{}{
			"status":      string(newStatus),
			"feedback":    feedback,
			"resolved_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to resolve donation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// 已被处理过，重复的回调直接忽略
		return nil
	}

	if verdict {
		err := db.Transaction(func(tx *gorm.DB) error {
			r := tx.Model(&model.Fine{}).
				Where("id = ? AND status = ?", donation.FineID, string(model.FineStatusPending)).
				Updates(map[string]interface{}{
					"status":  string(model.FineStatusDonated),
					"paid_at": now,
				})
			if r.Error != nil {
				return fmt.Errorf("failed to mark fine donated: %w", r.Error)
			}

			if err := tx.Model(&model.User{}).Where("id = ?", donation.UserID).
				Update("total_donated_pence", gorm.Expr("total_donated_pence + ?", donation.AmountPence)).Error; err != nil {
				return fmt.Errorf("failed to update donation total: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		metrics.RecordFineSettled("donated")
		metrics.RecordDonation("accepted")

		Notify().Emit(ctx, donation.UserID, model.NotificationTypeDonationAccepted,
			fmt.Sprintf("Your donation of %s to %s has been accepted. Fine settled.",
				utils.FormatPence(donation.AmountPence), donation.Charity),
			donation.PublicID)
	} else {
		metrics.RecordDonation("rejected")

		Notify().Emit(ctx, donation.UserID, model.NotificationTypeDonationRejected,
			feedback, donation.PublicID)
	}

	return nil
}

func (s *FineService) getOwnedFine(ctx context.Context, userID, finePublicID int64) (*model.Fine, error) {
	db := database.DB().WithContext(ctx)

	var fine model.Fine
	err := db.Where("public_id = ? AND user_id = ?", finePublicID, userID).First(&fine).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.FineNotFound
		}
		return nil, fmt.Errorf("failed to query fine: %w", err)
	}
	return &fine, nil
}

func (s *FineService) buildFineData(ctx context.Context, fine *model.Fine) (*dto.FineData, error) {
	db := database.DB().WithContext(ctx)

	var sub model.DailySubmission
	date := ""
	if err := db.First(&sub, fine.SubmissionID).Error; err == nil {
		date = sub.SubmissionDate
	}

	data := &dto.FineData{
		ID:           fmt.Sprintf("%d", fine.PublicID),
		Date:         date,
		OffenseCount: fine.OffenseCount,
		AmountPence:  fine.AmountPence,
		Status:       string(fine.Status),
		DueAt:        fine.DueAt,
		PaidAt:       fine.PaidAt,
	}

	var donation model.Donation
	err := db.Where("fine_id = ?", fine.ID).Order("created_at DESC").First(&donation).Error
	if err == nil {
		data.Donation = s.buildDonationData(&donation, fine.PublicID)
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query donation: %w", err)
	}

	return data, nil
}

func (s *FineService) buildDonationData(donation *model.Donation, finePublicID int64) *dto.DonationData {
	return &dto.DonationData{
		ID:          fmt.Sprintf("%d", donation.PublicID),
		FineID:      fmt.Sprintf("%d", finePublicID),
		Charity:     donation.Charity,
		AmountPence: donation.AmountPence,
		Status:      string(donation.Status),
		Feedback:    donation.Feedback,
		ResolvedAt:  donation.ResolvedAt,
	}
}
