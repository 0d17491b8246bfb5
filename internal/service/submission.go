package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"TeatimeAuthority/config"
	"TeatimeAuthority/internal/cache"
	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/imagestore"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/metrics"
	"TeatimeAuthority/pkg/teatime"
	"TeatimeAuthority/pkg/verify"
	"TeatimeAuthority/storage/database"
)

var (
	submissionService *SubmissionService
	submissionOnce    sync.Once
)

func Submission() *SubmissionService {
	submissionOnce.Do(func() {
		submissionService = &SubmissionService{}
	})
	return submissionService
}

type SubmissionService struct{}

// WindowConfig 从配置读取当日窗口参数
func WindowConfig() teatime.Config {
	return teatime.Config{
		Hour:                    config.Cfg.TeatimeHour,
		Minute:                  config.Cfg.TeatimeMinute,
		SubmissionWindowMinutes: config.Cfg.TeatimeWindowMinutes,
	}
}

// 单个用户单日的提交锁，窗口关闭扫描与用户提交串行化
func submissionLockKey(userID int64, date string) string {
	return fmt.Sprintf("submission:%d:%s", userID, date)
}

// GetToday 查询今日提交状态，记录不存在时按当前窗口状态懒创建
func (s *SubmissionService) GetToday(ctx context.Context, publicID int64) (*dto.TodaySubmissionData, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	eval := teatime.Evaluate(now, WindowConfig())

	sub, err := s.getOrCreateToday(ctx, user.ID, now, eval)
	if err != nil {
		return nil, err
	}

	data := &dto.TodaySubmissionData{
		Date:        sub.SubmissionDate,
		Status:      string(sub.Status),
		TeaType:     sub.TeaType,
		Feedback:    sub.Feedback,
		Attempts:    sub.Attempts,
		SubmittedAt: sub.SubmittedAt,
		VerifiedAt:  sub.VerifiedAt,
		Window: dto.WindowData{
			Open:                 eval.WindowOpen,
			OpensAt:              eval.OpensAt,
			ClosesAt:             eval.ClosesAt,
			SecondsUntilNextOpen: int64(eval.SecondsUntilNextOpen),
		},
	}
	if sub.ImageRef != "" {
		data.ImageURL = imagestore.Get().URL(sub.ImageRef)
	}
	return data, nil
}

// submitGuard 检查当前状态下能否接受新的提交
func submitGuard(status model.SubmissionStatus) error {
	switch status {
	case model.SubmissionStatusPendingVerification:
		return errors.SubmissionInProgress
	case model.SubmissionStatusVerified, model.SubmissionStatusMissed:
		return errors.InvalidTransition
	}
	return nil
}

// Submit 在窗口内提交茶照（图片 + 申报茶类）并启动异步识别
func (s *SubmissionService) Submit(ctx context.Context, publicID int64, req *dto.SubmitTeaRequest) (*dto.SubmitTeaResponse, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	teaType := strings.TrimSpace(req.TeaType)
	location := strings.TrimSpace(req.Location)
	if teaType == "" || utf8.RuneCountInString(teaType) > 64 || utf8.RuneCountInString(location) > 128 {
		return nil, errors.InvalidRequest
	}

	now := time.Now()
	eval := teatime.Evaluate(now, WindowConfig())
	if !eval.WindowOpen {
		return nil, errors.WindowClosed
	}

	date := teatime.DateKey(now)
	lockKey := submissionLockKey(user.ID, date)
	locked, err := cache.TryLock(ctx, lockKey, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submission lock: %w", err)
	}
	if !locked {
		return nil, errors.SubmissionInProgress
	}
	defer func() {
		if err := cache.Unlock(context.Background(), lockKey); err != nil {
			logger.Logger.Warn("Failed to release submission lock",
				zap.String("key", lockKey),
				zap.Error(err),
			)
		}
	}()

	sub, err := s.getOrCreateToday(ctx, user.ID, now, eval)
	if err != nil {
		return nil, err
	}

	if err := submitGuard(sub.Status); err != nil {
		return nil, err
	}

	db := database.DB().WithContext(ctx)

	// 条件更新保证窗口关闭扫描先到时提交不落地
	res := db.Model(&model.DailySubmission{}).
		Where("id = ? AND status IN ?", sub.ID,
			model.StatusesAllowing(model.SubmissionStatusPendingVerification)).
		Updates(map[string]interface{}{
			"status":       string(model.SubmissionStatusPendingVerification),
			"image_ref":    req.ImageRef,
			"tea_type":     teaType,
			"location":     location,
			"feedback":     "",
			"attempts":     gorm.Expr("attempts + 1"),
			"submitted_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update submission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.InvalidTransition
	}

	if err := cache.SetVerificationProgress(ctx, sub.ID, 0); err != nil {
		logger.Logger.Warn("Failed to reset verification progress",
			zap.Int64("submission_id", sub.ID),
			zap.Error(err),
		)
	}

	go s.runVerification(sub.ID, user.ID, req.ImageRef)

	logger.Logger.Info("Tea submission accepted for verification",
		zap.Int64("user_id", user.PublicID),
		zap.String("date", date),
		zap.String("tea_type", teaType),
		zap.Int("attempt", sub.Attempts+1),
	)

	return &dto.SubmitTeaResponse{
		Date:        date,
		Status:      string(model.SubmissionStatusPendingVerification),
		ImageURL:    imagestore.Get().URL(req.ImageRef),
		TeaType:     teaType,
		SubmittedAt: now,
	}, nil
}

// runVerification 后台执行识别并回写结果，进度写入 Redis 供轮询
func (s *SubmissionService) runVerification(submissionID, userID int64, imageRef string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	result, err := verify.Verify(ctx, verify.Request{
		Context:  verify.ContextTea,
		ImageRef: imageRef,
	}, func(value float64) {
		if err := cache.SetVerificationProgress(ctx, submissionID, value); err != nil {
			logger.Logger.Warn("Failed to write verification progress",
				zap.Int64("submission_id", submissionID),
				zap.Error(err),
			)
		}
	})

	outcome := "error"
	if err == nil {
		if result.Valid {
			outcome = "verified"
		} else {
			outcome = "rejected"
		}
	}
	metrics.RecordVerification(string(verify.ContextTea), outcome, time.Since(start).Seconds())

	// 传输失败没有结论，不算一次拒绝，回退后窗口内可重试
	if err != nil {
		logger.Logger.Error("Tea verification failed",
			zap.Int64("submission_id", submissionID),
			zap.Error(err),
		)
		if aerr := s.AbortVerification(ctx, submissionID); aerr != nil {
			logger.Logger.Error("Failed to abort verification after transport failure",
				zap.Int64("submission_id", submissionID),
				zap.Error(aerr),
			)
		}
		return
	}

	if err := s.ResolveVerification(ctx, submissionID, userID, result); err != nil {
		logger.Logger.Error("Failed to resolve verification",
			zap.Int64("submission_id", submissionID),
			zap.Error(err),
		)
	}
}

// AbortVerification 识别服务不可用时回退 pending_verification 到 window_open
// 窗口关闭扫描已先落地 missed 时回退不生效
func (s *SubmissionService) AbortVerification(ctx context.Context, submissionID int64) error {
	db := database.DB().WithContext(ctx)

	defer func() {
		if err := cache.ClearVerificationProgress(ctx, submissionID); err != nil {
			logger.Logger.Warn("Failed to clear verification progress",
				zap.Int64("submission_id", submissionID),
				zap.Error(err),
			)
		}
	}()

	res := db.Model(&model.DailySubmission{}).
		Where("id = ? AND status = ?", submissionID, string(model.SubmissionStatusPendingVerification)).
		Updates(map[string]interface{}{
			"status":   string(model.SubmissionStatusWindowOpen),
			"feedback": errors.VerificationUnavailable.Message,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to abort verification: %w", res.Error)
	}
	return nil
}

// ResolveVerification 回写识别结果：通过则终态并生成动态，未通过则允许窗口内重试
// 仅当记录仍处于 pending_verification 时生效，窗口关闭扫描先到则本次结果作废
func (s *SubmissionService) ResolveVerification(ctx context.Context, submissionID, userID int64, result verify.Result) error {
	db := database.DB().WithContext(ctx)

	defer func() {
		if err := cache.ClearVerificationProgress(ctx, submissionID); err != nil {
			logger.Logger.Warn("Failed to clear verification progress",
				zap.Int64("submission_id", submissionID),
				zap.Error(err),
			)
		}
	}()

	now := time.Now()
	target := model.SubmissionStatusRejected
	updates := map[string]interface{}{
		"feedback": result.Feedback,
	}
	if result.Valid {
		target = model.SubmissionStatusVerified
		updates["verified_at"] = now
	}
	updates["status"] = string(target)

	res := db.Model(&model.DailySubmission{}).
		Where("id = ? AND status IN ?", submissionID, model.StatusesAllowing(target)).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to resolve verification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		logger.Logger.Warn("Verification result discarded, submission no longer pending",
			zap.Int64("submission_id", submissionID),
		)
		return nil
	}

	if result.Valid {
		var sub model.DailySubmission
		if err := db.First(&sub, submissionID).Error; err != nil {
			return fmt.Errorf("failed to load verified submission: %w", err)
		}

		if err := Tea().CreatePostForSubmission(ctx, &sub); err != nil {
			logger.Logger.Error("Failed to create tea post for verified submission",
				zap.Int64("submission_id", submissionID),
				zap.Error(err),
			)
		}

		Notify().Emit(ctx, userID, model.NotificationTypeVerified,
			"Your tea has been verified. Well done, keep it up!", sub.ID)
	} else {
		Notify().Emit(ctx, userID, model.NotificationTypeRejected, result.Feedback, submissionID)
	}

	return nil
}

// Cancel 放弃进行中的识别（重拍），窗口仍开时回到 window_open
func (s *SubmissionService) Cancel(ctx context.Context, publicID int64) error {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	now := time.Now()
	eval := teatime.Evaluate(now, WindowConfig())
	if !eval.WindowOpen {
		return errors.WindowClosed
	}

	db := database.DB().WithContext(ctx)
	date := teatime.DateKey(now)

	var sub model.DailySubmission
	err = db.Where("user_id = ? AND submission_date = ?", user.ID, date).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.SubmissionNotFound
		}
		return fmt.Errorf("failed to query submission: %w", err)
	}

	res := db.Model(&model.DailySubmission{}).
		Where("id = ? AND status = ?", sub.ID, string(model.SubmissionStatusPendingVerification)).
		Update("status", string(model.SubmissionStatusWindowOpen))
	if res.Error != nil {
		return fmt.Errorf("failed to cancel verification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.InvalidTransition
	}

	if err := cache.ClearVerificationProgress(ctx, sub.ID); err != nil {
		logger.Logger.Warn("Failed to clear verification progress",
			zap.Int64("submission_id", sub.ID),
			zap.Error(err),
		)
	}
	return nil
}

// staticProgress 非识别中状态的进度基值：已有识别结论为 1，从未开始识别为 0
func staticProgress(status model.SubmissionStatus) float64 {
	switch status {
	case model.SubmissionStatusVerified, model.SubmissionStatusRejected:
		return 1.0
	default:
		return 0
	}
}

// GetProgress 查询识别进度，供客户端轮询
func (s *SubmissionService) GetProgress(ctx context.Context, publicID int64) (*dto.VerificationProgressData, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	db := database.DB().WithContext(ctx)
	date := teatime.DateKey(time.Now())

	var sub model.DailySubmission
	err = db.Where("user_id = ? AND submission_date = ?", user.ID, date).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.SubmissionNotFound
		}
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}

	progress := staticProgress(sub.Status)
	if sub.Status == model.SubmissionStatusPendingVerification {
		progress, err = cache.GetVerificationProgress(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
	}

	return &dto.VerificationProgressData{
		Date:     sub.SubmissionDate,
		Status:   string(sub.Status),
		Progress: progress,
		Feedback: sub.Feedback,
	}, nil
}

// History 按日期范围查询提交历史
func (s *SubmissionService) History(ctx context.Context, publicID int64, q *dto.SubmissionHistoryQuery) ([]dto.SubmissionHistoryItem, error) {
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
	if q.From != "" {
		tx = tx.Where("submission_date >= ?", q.From)
	}
	if q.To != "" {
		tx = tx.Where("submission_date <= ?", q.To)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	var subs []model.DailySubmission
	if err := tx.Order("submission_date DESC").Limit(limit).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to query submission history: %w", err)
	}

	items := make([]dto.SubmissionHistoryItem, 0, len(subs))
	for _, sub := range subs {
		item := dto.SubmissionHistoryItem{
			Date:       sub.SubmissionDate,
			Status:     string(sub.Status),
			TeaType:    sub.TeaType,
			VerifiedAt: sub.VerifiedAt,
		}
		if sub.ImageRef != "" {
			item.ImageURL = imagestore.Get().URL(sub.ImageRef)
		}
		items = append(items, item)
	}
	return items, nil
}

// MarkWindowOpenForDate 窗口开启：为活跃用户建立当日记录并推进到 window_open
func (s *SubmissionService) MarkWindowOpenForDate(ctx context.Context, date string, userIDs []int64) error {
	db := database.DB().WithContext(ctx)

	for _, userID := range userIDs {
		var sub model.DailySubmission
		err := db.Where("user_id = ? AND submission_date = ?", userID, date).First(&sub).Error
		if err == gorm.ErrRecordNotFound {
			sub = model.DailySubmission{
				UserID:         userID,
				SubmissionDate: date,
				Status:         model.SubmissionStatusWindowOpen,
			}
			if err := db.Create(&sub).Error; err != nil {
				logger.Logger.Error("Failed to create submission on window open",
					zap.Int64("user_id", userID),
					zap.String("date", date),
					zap.Error(err),
				)
			}
			Notify().Emit(ctx, userID, model.NotificationTypeWindowOpen,
				"Tea time! The submission window is open for the next few minutes.", sub.ID)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to query submission: %w", err)
		}

		res := db.Model(&model.DailySubmission{}).
			Where("id = ? AND status = ?", sub.ID, string(model.SubmissionStatusAwaitingWindow)).
			Update("status", string(model.SubmissionStatusWindowOpen))
		if res.Error != nil {
			return fmt.Errorf("failed to open submission window: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			Notify().Emit(ctx, userID, model.NotificationTypeWindowOpen,
				"Tea time! The submission window is open for the next few minutes.", sub.ID)
		}
	}
	return nil
}

// MarkMissedForDate 窗口关闭：未到 verified 的记录全部标记 missed 并开出罚款
// 逐条条件更新，和并发到达的识别结果回写天然互斥
func (s *SubmissionService) MarkMissedForDate(ctx context.Context, date string) error {
	db := database.DB().WithContext(ctx)

	var open []model.DailySubmission
	err := db.Where("submission_date = ? AND status IN ?", date,
		model.StatusesAllowing(model.SubmissionStatusMissed)).Find(&open).Error
	if err != nil {
		return fmt.Errorf("failed to scan open submissions: %w", err)
	}

	for i := range open {
		sub := &open[i]

		res := db.Model(&model.DailySubmission{}).
			Where("id = ? AND status IN ?", sub.ID,
				model.StatusesAllowing(model.SubmissionStatusMissed)).
			Update("status", string(model.SubmissionStatusMissed))
		if res.Error != nil {
			logger.Logger.Error("Failed to mark submission missed",
				zap.Int64("submission_id", sub.ID),
				zap.Error(res.Error),
			)
			continue
		}
		if res.RowsAffected == 0 {
			// 识别结果抢先落地
			continue
		}

		if err := cache.ClearVerificationProgress(ctx, sub.ID); err != nil {
			logger.Logger.Warn("Failed to clear verification progress",
				zap.Int64("submission_id", sub.ID),
				zap.Error(err),
			)
		}

		fine, err := Fine().IssueFine(ctx, sub.UserID, sub.ID)
		if err != nil {
			logger.Logger.Error("Failed to issue fine for missed submission",
				zap.Int64("submission_id", sub.ID),
				zap.Int64("user_id", sub.UserID),
				zap.Error(err),
			)
			continue
		}

		logger.Logger.Info("Submission marked missed",
			zap.Int64("submission_id", sub.ID),
			zap.Int64("user_id", sub.UserID),
			zap.Int64("fine_amount_pence", fine.AmountPence),
		)
	}
	return nil
}

// getOrCreateToday 读取当日记录，不存在时按当前窗口位置落一条初始记录
func (s *SubmissionService) getOrCreateToday(ctx context.Context, userID int64, now time.Time, eval teatime.Evaluation) (*model.DailySubmission, error) {
	db := database.DB().WithContext(ctx)
	date := teatime.DateKey(now)

	var sub model.DailySubmission
	err := db.Where("user_id = ? AND submission_date = ?", userID, date).First(&sub).Error
	if err == nil {
		return &sub, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}

	status := model.SubmissionStatusAwaitingWindow
	if eval.WindowOpen {
		status = model.SubmissionStatusWindowOpen
	} else if now.After(eval.ClosesAt) || now.Equal(eval.ClosesAt) {
		// 关窗后才首次出现的记录不再参与当日扫描，直接判 missed 但不开罚款
		status = model.SubmissionStatusMissed
	}

	sub = model.DailySubmission{
		UserID:         userID,
		SubmissionDate: date,
		Status:         status,
	}
	if err := db.Create(&sub).Error; err != nil {
		// 并发创建时读已有记录
		var existing model.DailySubmission
		if qerr := db.Where("user_id = ? AND submission_date = ?", userID, date).First(&existing).Error; qerr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return &sub, nil
}
