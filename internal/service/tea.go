package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/imagestore"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/snowflake"
	"TeatimeAuthority/storage/database"
)

var (
	teaService *TeaService
	teaOnce    sync.Once
)

func Tea() *TeaService {
	teaOnce.Do(func() {
		teaService = &TeaService{}
	})
	return teaService
}

type TeaService struct{}

// CreatePostForSubmission 识别通过后生成对好友可见的动态，同一提交只生成一条
func (s *TeaService) CreatePostForSubmission(ctx context.Context, sub *model.DailySubmission) error {
	db := database.DB().WithContext(ctx)

	var existing model.TeaPost
	err := db.Where("submission_id = ?", sub.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to query tea post: %w", err)
	}

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeEntity)
	if err != nil {
		return fmt.Errorf("failed to generate post ID: %w", err)
	}

	post := &model.TeaPost{
		PublicID:     publicID,
		UserID:       sub.UserID,
		SubmissionID: sub.ID,
		ImageRef:     sub.ImageRef,
		TeaType:      sub.TeaType,
		Location:     sub.Location,
	}
	if err := db.Create(post).Error; err != nil {
		return fmt.Errorf("failed to create tea post: %w", err)
	}

	logger.Logger.Info("Tea post created",
		zap.Int64("post_id", publicID),
		zap.Int64("user_id", sub.UserID),
		zap.String("date", sub.SubmissionDate),
	)
	return nil
}

// Feed 动态流：本人和好友的动态，按时间倒序，游标分页
func (s *TeaService) Feed(ctx context.Context, publicID int64, q *dto.FeedQuery) (*dto.FeedResponse, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	friendIDs, err := Friend().friendInternalIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	visibleIDs := append(friendIDs, user.ID)

	db := database.DB().WithContext(ctx)
	tx := db.Where("user_id IN ?", visibleIDs)
	if q.Cursor != "" {
		cursor, err := time.Parse(time.RFC3339Nano, q.Cursor)
		if err != nil {
			return nil, errors.InvalidRequest
		}
		tx = tx.Where("created_at < ?", cursor)
	}

	var posts []model.TeaPost
	if err := tx.Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}

	response := &dto.FeedResponse{Posts: make([]dto.TeaPostData, 0, len(posts))}
	for i := range posts {
		data, err := s.buildPostData(ctx, &posts[i], user.ID)
		if err != nil {
			return nil, err
		}
		response.Posts = append(response.Posts, *data)
	}
	if len(posts) == limit {
		response.NextCursor = posts[len(posts)-1].CreatedAt.Format(time.RFC3339Nano)
	}
	return response, nil
}

// Like 点赞，同一用户重复点赞为幂等空操作
func (s *TeaService) Like(ctx context.Context, publicID, postPublicID int64) error {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	post, err := s.getByPublicID(ctx, postPublicID)
	if err != nil {
		return err
	}

	db := database.DB().WithContext(ctx)

	var existing model.TeaLike
	err = db.Where("post_id = ? AND user_id = ?", post.ID, user.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to query like: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.TeaLike{PostID: post.ID, UserID: user.ID}).Error; err != nil {
			return fmt.Errorf("failed to create like: %w", err)
		}
		return tx.Model(&model.TeaPost{}).Where("id = ?", post.ID).
			Update("like_count", gorm.Expr("like_count + 1")).Error
	})
	if err != nil {
		return err
	}

	if post.UserID != user.ID {
		Notify().Emit(ctx, post.UserID, model.NotificationTypeLike,
			fmt.Sprintf("%s liked your tea.", user.Username), post.PublicID)
	}
	return nil
}

// Unlike 取消点赞
func (s *TeaService) Unlike(ctx context.Context, publicID, postPublicID int64) error {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	post, err := s.getByPublicID(ctx, postPublicID)
	if err != nil {
		return err
	}

	db := database.DB().WithContext(ctx)

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", post.ID, user.ID).
			Delete(&model.TeaLike{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.TeaPost{}).Where("id = ? AND like_count > 0", post.ID).
			Update("like_count", gorm.Expr("like_count - 1")).Error
	})
}

// Comment 发表评论，长度上限按 unicode 字符计
func (s *TeaService) Comment(ctx context.Context, publicID, postPublicID int64, content string) (*dto.CommentData, error) {
	if utf8.RuneCountInString(content) > model.MaxCommentLength {
		return nil, errors.CommentTooLong
	}

	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	post, err := s.getByPublicID(ctx, postPublicID)
	if err != nil {
		return nil, err
	}

	commentPublicID, err := snowflake.NextID(snowflake.GeneratorTypeEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate comment ID: %w", err)
	}

	comment := &model.TeaComment{
		PublicID: commentPublicID,
		PostID:   post.ID,
		UserID:   user.ID,
		Content:  content,
	}

	db := database.DB().WithContext(ctx)
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return tx.Model(&model.TeaPost{}).Where("id = ?", post.ID).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	if post.UserID != user.ID {
		Notify().Emit(ctx, post.UserID, model.NotificationTypeComment,
			fmt.Sprintf("%s commented on your tea.", user.Username), post.PublicID)
	}

	return &dto.CommentData{
		ID: fmt.Sprintf("%d", comment.PublicID),
		User: dto.PostUser{
			ID:       fmt.Sprintf("%d", user.PublicID),
			Username: user.Username,
			PhotoURL: user.PhotoURL,
		},
		Content:   content,
		CreatedAt: comment.CreatedAt,
	}, nil
}

// ListComments 查询动态的评论，按时间正序
func (s *TeaService) ListComments(ctx context.Context, postPublicID int64) ([]dto.CommentData, error) {
	post, err := s.getByPublicID(ctx, postPublicID)
	if err != nil {
		return nil, err
	}

	db := database.DB().WithContext(ctx)

	var comments []model.TeaComment
	err = db.Where("post_id = ?", post.ID).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	results := make([]dto.CommentData, 0, len(comments))
	for _, c := range comments {
		var author model.User
		if err := db.First(&author, c.UserID).Error; err != nil {
			return nil, fmt.Errorf("failed to load comment author: %w", err)
		}
		results = append(results, dto.CommentData{
			ID: fmt.Sprintf("%d", c.PublicID),
			User: dto.PostUser{
				ID:       fmt.Sprintf("%d", author.PublicID),
				Username: author.Username,
				PhotoURL: author.PhotoURL,
			},
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}
	return results, nil
}

func (s *TeaService) getByPublicID(ctx context.Context, postPublicID int64) (*model.TeaPost, error) {
	db := database.DB().WithContext(ctx)

	var post model.TeaPost
	if err := db.Where("public_id = ?", postPublicID).First(&post).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.TeaPostNotFound
		}
		return nil, fmt.Errorf("failed to query tea post: %w", err)
	}
	return &post, nil
}

func (s *TeaService) buildPostData(ctx context.Context, post *model.TeaPost, viewerID int64) (*dto.TeaPostData, error) {
	db := database.DB().WithContext(ctx)

	var author model.User
	if err := db.First(&author, post.UserID).Error; err != nil {
		return nil, fmt.Errorf("failed to load post author: %w", err)
	}

	var liked int64
	err := db.Model(&model.TeaLike{}).
		Where("post_id = ? AND user_id = ?", post.ID, viewerID).
		Count(&liked).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query like state: %w", err)
	}

	return &dto.TeaPostData{
		ID: fmt.Sprintf("%d", post.PublicID),
		User: dto.PostUser{
			ID:       fmt.Sprintf("%d", author.PublicID),
			Username: author.Username,
			PhotoURL: author.PhotoURL,
		},
		ImageURL:     imagestore.Get().URL(post.ImageRef),
		TeaType:      post.TeaType,
		Location:     post.Location,
		Caption:      post.Caption,
		LikeCount:    post.LikeCount,
		CommentCount: post.CommentCount,
		LikedByMe:    liked > 0,
		CreatedAt:    post.CreatedAt,
	}, nil
}
