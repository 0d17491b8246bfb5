package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"TeatimeAuthority/internal/cache"
	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/pkg/snowflake"
	"TeatimeAuthority/pkg/token"
	"TeatimeAuthority/storage/database"
	"TeatimeAuthority/utils"
)

var (
	userService *UserService
	userOnce    sync.Once
)

func User() *UserService {
	userOnce.Do(func() {
		userService = &UserService{}
	})
	return userService
}

type UserService struct{}

// SignUp 注册新用户
func (s *UserService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.TokenResponse, error) {
	db := database.DB().WithContext(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if !utils.ValidateEmail(email) || !utils.ValidateUsername(username) {
		return nil, errors.InvalidRequest
	}

	var existing model.User
	err := db.Where("email = ? OR username = ?", email, username).First(&existing).Error
	if err == nil {
		return nil, errors.EmailAlreadyRegistered
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	publicID, err := snowflake.NextID(snowflake.GeneratorTypeEntity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID: %w", err)
	}

	user := &model.User{
		PublicID:     publicID,
		Email:        email,
		PasswordHash: string(passwordHash),
		Username:     username,
		FullName:     req.FullName,
		Status:       model.UserStatusActive,
	}

	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Logger.Info("New user created",
		zap.Int64("public_id", publicID),
		zap.String("username", username),
	)

	return s.issueTokens(ctx, user)
}

// SignIn 邮箱密码登录
func (s *UserService) SignIn(ctx context.Context, req *dto.SignInRequest) (*dto.TokenResponse, error) {
	db := database.DB().WithContext(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.InvalidCredentials
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.InvalidCredentials
	}

	return s.issueTokens(ctx, &user)
}

// RefreshToken 校验并轮换 refresh token
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userIDStr, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized
	}

	// 检验 Redis 中是否存在且匹配
	if !cache.ValidateRefreshTokenExists(ctx, userIDStr, refreshToken) {
		return nil, errors.Unauthorized
	}

	var publicID int64
	fmt.Sscanf(userIDStr, "%d", &publicID)

	user, err := s.getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *UserService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	userIDStr := fmt.Sprintf("%d", user.PublicID)

	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, userIDStr, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token in Redis",
			zap.String("user_id", userIDStr),
			zap.Error(err),
		)
		// 不返回错误，token 已经生成成功
	}

	profile, err := s.buildProfile(ctx, user, true)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		User:         *profile,
	}, nil
}

// GetProfile 查询用户资料，self 控制是否返回邮箱等私有字段
func (s *UserService) GetProfile(ctx context.Context, publicID int64, self bool) (*dto.UserProfileData, error) {
	user, err := s.getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, user, self)
}

// UpdateProfile 更新用户资料，nil 字段保持不变
func (s *UserService) UpdateProfile(ctx context.Context, publicID int64, req *dto.UpdateProfileRequest) (*dto.UserProfileData, error) {
	db := database.DB().WithContext(ctx)

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.PhotoURL != nil {
		updates["photo_url"] = *req.PhotoURL
	}
	if req.FavoriteTea != nil {
		updates["favorite_tea"] = *req.FavoriteTea
	}

	if len(updates) > 0 {
		if err := db.Model(&model.User{}).Where("public_id = ?", publicID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return s.GetProfile(ctx, publicID, true)
}

// Search 按用户名前缀搜索活跃用户
func (s *UserService) Search(ctx context.Context, prefix string, limit int) ([]dto.FriendData, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	db := database.DB().WithContext(ctx)

	var users []model.User
	err := db.Where("status = ? AND username LIKE ?", model.UserStatusActive, prefix+"%").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	results := make([]dto.FriendData, 0, len(users))
	for _, u := range users {
		results = append(results, dto.FriendData{
			ID:          fmt.Sprintf("%d", u.PublicID),
			Username:    u.Username,
			FullName:    u.FullName,
			PhotoURL:    u.PhotoURL,
			FavoriteTea: u.FavoriteTea,
		})
	}
	return results, nil
}

func (s *UserService) getByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	db := database.DB().WithContext(ctx)

	var user model.User
	if err := db.Where("public_id = ?", publicID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *UserService) buildProfile(ctx context.Context, user *model.User, self bool) (*dto.UserProfileData, error) {
	db := database.DB().WithContext(ctx)

	var postCount int64
	if err := db.Model(&model.TeaPost{}).Where("user_id = ?", user.ID).Count(&postCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count tea posts: %w", err)
	}

	var friendCount int64
	err := db.Model(&model.Friendship{}).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
			user.ID, user.ID, model.FriendshipStatusAccepted).
		Count(&friendCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count friends: %w", err)
	}

	profile := &dto.UserProfileData{
		ID:          fmt.Sprintf("%d", user.PublicID),
		Username:    user.Username,
		FullName:    user.FullName,
		Bio:         user.Bio,
		PhotoURL:    user.PhotoURL,
		FavoriteTea: user.FavoriteTea,
		Stats: dto.UserStatsData{
			TotalDonatedPence: user.TotalDonatedPence,
			OffenseCount:      user.OffenseCount,
			TeaPostCount:      postCount,
			FriendCount:       friendCount,
		},
	}
	if self {
		profile.Email = user.Email
	}
	return profile, nil
}
