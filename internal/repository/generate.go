package repository

import (
	"fmt"
	"os"

	"gorm.io/gen"

	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/storage/database"
)

// ========== User 相关查询接口 ==========

// UserQuerier 用户查询接口
type UserQuerier interface {
	// GetByEmail 根据邮箱查询用户
	//
	// SELECT * FROM @@table WHERE email = @email LIMIT 1
	GetByEmail(email string) (*gen.T, error)

	// GetByUsername 根据用户名查询用户
	//
	// SELECT * FROM @@table WHERE username = @username LIMIT 1
	GetByUsername(username string) (*gen.T, error)

	// GetByPublicID 根据 PublicID 查询用户（API 中 userID 是 public_id）
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// ListActiveUserIDs 查询活跃用户ID（用于每日调度）
	//
	// SELECT id FROM @@table WHERE status = 'active'
	ListActiveUserIDs() ([]int64, error)

	// SearchByUsernamePrefix 按用户名前缀搜索（好友添加）
	//
	// SELECT * FROM @@table
	// WHERE status = 'active' AND username LIKE CONCAT(@prefix, '%')
	// ORDER BY username ASC
	// LIMIT @limit
	SearchByUsernamePrefix(prefix string, limit int) ([]*gen.T, error)
}

// ========== DailySubmission 相关查询接口 ==========

// SubmissionQuerier 提交记录查询接口
type SubmissionQuerier interface {
	// GetByUserIDAndDate 根据用户和日期查询提交记录
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID AND submission_date = @date::date
	// LIMIT 1
	GetByUserIDAndDate(userID int64, date string) (*gen.T, error)

	// ListOpenByDate 查询指定日期仍未到终态的记录（窗口关闭时扫描）
	//
	// SELECT * FROM @@table
	// WHERE submission_date = @date::date
	//   AND status NOT IN ('verified', 'missed')
	ListOpenByDate(date string) ([]*gen.T, error)

	// ListByUserIDAndDateRange 按用户和日期范围查询提交记录（分页）
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID
	//   AND submission_date >= @fromDate::date
	//   AND submission_date <= @toDate::date
	//   {{if status != ""}}
	//   AND status = @status
	//   {{end}}
	// ORDER BY submission_date DESC
	// LIMIT @limit
	ListByUserIDAndDateRange(userID int64, fromDate, toDate string, status string, limit int) ([]*gen.T, error)
}

// ========== Fine / Donation 相关查询接口 ==========

// FineQuerier 罚款查询接口
type FineQuerier interface {
	// GetByPublicID 根据 PublicID 查询罚款
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// GetBySubmissionID 根据提交记录查询罚款（幂等性检查）
	//
	// SELECT * FROM @@table WHERE submission_id = @submissionID LIMIT 1
	GetBySubmissionID(submissionID int64) (*gen.T, error)

	// ListByUserID 按用户查询罚款（分页，支持状态筛选）
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID
	//   {{if status != ""}}
	//   AND status = @status
	//   {{end}}
	// ORDER BY created_at DESC
	// LIMIT @limit
	ListByUserID(userID int64, status string, limit int) ([]*gen.T, error)

	// CountPendingByUserID 统计用户未结清罚款数量
	//
	// SELECT COUNT(*) FROM @@table
	// WHERE user_id = @userID AND status = 'pending'
	CountPendingByUserID(userID int64) (int64, error)
}

// DonationQuerier 捐赠凭证查询接口
type DonationQuerier interface {
	// GetByPublicID 根据 PublicID 查询捐赠凭证
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// GetLatestByFineID 查询某罚款最近一次捐赠凭证
	//
	// SELECT * FROM @@table
	// WHERE fine_id = @fineID
	// ORDER BY created_at DESC
	// LIMIT 1
	GetLatestByFineID(fineID int64) (*gen.T, error)

	// GetPendingByFineID 查询某罚款处理中的捐赠凭证（防重复提交）
	//
	// SELECT * FROM @@table
	// WHERE fine_id = @fineID AND status = 'pending'
	// LIMIT 1
	GetPendingByFineID(fineID int64) (*gen.T, error)
}

// ========== TeaPost 相关查询接口 ==========

// TeaPostQuerier 茶照动态查询接口
type TeaPostQuerier interface {
	// GetByPublicID 根据 PublicID 查询动态
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// ListFeed 查询动态流（本人加好友，游标分页）
	//
	// SELECT * FROM @@table
	// WHERE user_id IN (@userIDs)
	//   {{if cursor != ""}}
	//   AND created_at < @cursor::timestamptz
	//   {{end}}
	// ORDER BY created_at DESC
	// LIMIT @limit
	ListFeed(userIDs []int64, cursor string, limit int) ([]*gen.T, error)

	// CountByUserID 统计用户动态数量
	//
	// SELECT COUNT(*) FROM @@table WHERE user_id = @userID
	CountByUserID(userID int64) (int64, error)
}

// ========== Notification 相关查询接口 ==========

// NotificationQuerier 应用内通知查询接口
type NotificationQuerier interface {
	// ListByUserID 按用户查询通知（分页，支持仅未读）
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID
	//   {{if unreadOnly}}
	//   AND read = false
	//   {{end}}
	// ORDER BY created_at DESC
	// LIMIT @limit
	ListByUserID(userID int64, unreadOnly bool, limit int) ([]*gen.T, error)

	// CountUnreadByUserID 统计用户未读通知数量
	//
	// SELECT COUNT(*) FROM @@table
	// WHERE user_id = @userID AND read = false
	CountUnreadByUserID(userID int64) (int64, error)
}

func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	db := database.DB()
	if db == nil {
		return errors.ErrDatabaseConnectionNil
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query", // 生成代码的输出路径
		ModelPkgPath:      "TeatimeAuthority/internal/model",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true, // 字段可以为 null
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	// 注册现有的 model，GORM Gen 会使用这些 model 而不是生成新的
	g.ApplyBasic(
		&model.User{},
		&model.DailySubmission{},
		&model.Fine{},
		&model.Donation{},
		&model.TeaPost{},
		&model.TeaLike{},
		&model.TeaComment{},
		&model.Friendship{},
		&model.Notification{},
	)

	// 直接应用接口，GORM Gen 会根据接口中的类型自动匹配已注册的 model
	g.ApplyInterface(func(UserQuerier) {}, &model.User{})
	g.ApplyInterface(func(SubmissionQuerier) {}, &model.DailySubmission{})
	g.ApplyInterface(func(FineQuerier) {}, &model.Fine{})
	g.ApplyInterface(func(DonationQuerier) {}, &model.Donation{})
	g.ApplyInterface(func(TeaPostQuerier) {}, &model.TeaPost{})
	g.ApplyInterface(func(NotificationQuerier) {}, &model.Notification{})

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
