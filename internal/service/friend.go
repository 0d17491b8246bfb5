package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"TeatimeAuthority/internal/model"
	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/logger"
	"TeatimeAuthority/storage/database"
)

var (
	friendService *FriendService
	friendOnce    sync.Once
)

func Friend() *FriendService {
	friendOnce.Do(func() {
		friendService = &FriendService{}
	})
	return friendService
}

type FriendService struct{}

// Request 按用户名发起好友请求。对方已发起过请求时直接接受，双向只保留一条记录
func (s *FriendService) Request(ctx context.Context, publicID int64, username string) error {
	requester, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	db := database.DB().WithContext(ctx)

	var addressee model.User
	if err := db.Where("username = ?", username).First(&addressee).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.UserNotFound
		}
		return fmt.Errorf("failed to query user: %w", err)
	}
	if addressee.ID == requester.ID {
		return errors.InvalidRequest
	}

	var existing model.Friendship
	err = db.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		requester.ID, addressee.ID, addressee.ID, requester.ID,
	).First(&existing).Error

	if err == nil {
		if existing.Status == model.FriendshipStatusAccepted {
			return errors.DuplicateFriendRequest
		}
		// 对方先发起过请求，视为接受
		if existing.RequesterID == addressee.ID {
			return s.accept(ctx, &existing, requester)
		}
		return errors.DuplicateFriendRequest
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to query friendship: %w", err)
	}

	friendship := &model.Friendship{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      model.FriendshipStatusPending,
	}
	if err := db.Create(friendship).Error; err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}

	Notify().Emit(ctx, addressee.ID, model.NotificationTypeFriendRequest,
		fmt.Sprintf("%s wants to be your tea friend.", requester.Username), requester.PublicID)

	logger.Logger.Info("Friend request created",
		zap.Int64("requester", requester.PublicID),
		zap.Int64("addressee", addressee.PublicID),
	)
	return nil
}

// Accept 接受来自某用户的好友请求
func (s *FriendService) Accept(ctx context.Context, publicID, requesterPublicID int64) error {
	addressee, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	requester, err := User().getByPublicID(ctx, requesterPublicID)
	if err != nil {
		return err
	}

	db := database.DB().WithContext(ctx)

	var friendship model.Friendship
	err = db.Where("requester_id = ? AND addressee_id = ? AND status = ?",
		requester.ID, addressee.ID, model.FriendshipStatusPending).
		First(&friendship).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.FriendRequestNotFound
		}
		return fmt.Errorf("failed to query friend request: %w", err)
	}

	return s.accept(ctx, &friendship, addressee)
}

func (s *FriendService) accept(ctx context.Context, friendship *model.Friendship, acceptor *model.User) error {
	db := database.DB().WithContext(ctx)

	res := db.Model(&model.Friendship{}).
		Where("id = ? AND status = ?", friendship.ID, string(model.FriendshipStatusPending)).
		Update("status", string(model.FriendshipStatusAccepted))
	if res.Error != nil {
		return fmt.Errorf("failed to accept friend request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.FriendRequestNotFound
	}

	Notify().Emit(ctx, friendship.RequesterID, model.NotificationTypeFriendAccepted,
		fmt.Sprintf("%s accepted your friend request. Enjoy your tea together!", acceptor.Username),
		acceptor.PublicID)
	return nil
}

// Decline 拒绝好友请求（删除待处理记录）
func (s *FriendService) Decline(ctx context.Context, publicID, requesterPublicID int64) error {
	addressee, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	requester, err := User().getByPublicID(ctx, requesterPublicID)
	if err != nil {
		return err
	}

	db := database.DB().WithContext(ctx)

	res := db.Where("requester_id = ? AND addressee_id = ? AND status = ?",
		requester.ID, addressee.ID, model.FriendshipStatusPending).
		Delete(&model.Friendship{})
	if res.Error != nil {
		return fmt.Errorf("failed to decline friend request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.FriendRequestNotFound
	}
	return nil
}

// Remove 解除好友关系
func (s *FriendService) Remove(ctx context.Context, publicID, friendPublicID int64) error {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	friend, err := User().getByPublicID(ctx, friendPublicID)
	if err != nil {
		return err
	}

	db := database.DB().WithContext(ctx)

	res := db.Where(
		"((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)) AND status = ?",
		user.ID, friend.ID, friend.ID, user.ID, model.FriendshipStatusAccepted,
	).Delete(&model.Friendship{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove friend: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.FriendRequestNotFound
	}
	return nil
}

// ListFriends 查询好友列表
func (s *FriendService) ListFriends(ctx context.Context, publicID int64) ([]dto.FriendData, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	friendIDs, err := s.friendInternalIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return []dto.FriendData{}, nil
	}

	db := database.DB().WithContext(ctx)

	var friends []model.User
	if err := db.Where("id IN ?", friendIDs).Order("username ASC").Find(&friends).Error; err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}

	results := make([]dto.FriendData, 0, len(friends))
	for _, f := range friends {
		results = append(results, dto.FriendData{
			ID:          fmt.Sprintf("%d", f.PublicID),
			Username:    f.Username,
			FullName:    f.FullName,
			PhotoURL:    f.PhotoURL,
			FavoriteTea: f.FavoriteTea,
		})
	}
	return results, nil
}

// ListRequests 查询待处理的好友请求（发给我的）
func (s *FriendService) ListRequests(ctx context.Context, publicID int64) ([]dto.FriendRequestData, error) {
	user, err := User().getByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	db := database.DB().WithContext(ctx)

	var requests []model.Friendship
	err = db.Where("addressee_id = ? AND status = ?", user.ID, model.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query friend requests: %w", err)
	}

	results := make([]dto.FriendRequestData, 0, len(requests))
	for _, r := range requests {
		var requester model.User
		if err := db.First(&requester, r.RequesterID).Error; err != nil {
			return nil, fmt.Errorf("failed to load requester: %w", err)
		}
		results = append(results, dto.FriendRequestData{
			ID: fmt.Sprintf("%d", requester.PublicID),
			From: dto.FriendData{
				ID:          fmt.Sprintf("%d", requester.PublicID),
				Username:    requester.Username,
				FullName:    requester.FullName,
				PhotoURL:    requester.PhotoURL,
				FavoriteTea: requester.FavoriteTea,
			},
			CreatedAt: r.CreatedAt,
		})
	}
	return results, nil
}

// friendInternalIDs 返回某用户全部好友的内部 ID
func (s *FriendService) friendInternalIDs(ctx context.Context, userID int64) ([]int64, error) {
	db := database.DB().WithContext(ctx)

	var friendships []model.Friendship
	err := db.Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
		userID, userID, model.FriendshipStatusAccepted).
		Find(&friendships).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}

	ids := make([]int64, 0, len(friendships))
	for _, f := range friendships {
		if f.RequesterID == userID {
			ids = append(ids, f.AddresseeID)
		} else {
			ids = append(ids, f.RequesterID)
		}
	}
	return ids, nil
}
