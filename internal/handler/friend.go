package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/internal/service"
	"TeatimeAuthority/pkg/response"
)

// SendFriendRequest 按用户名发起好友请求
// POST /v1/friends/requests
func SendFriendRequest(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	var req dto.FriendRequestCreate
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Friend().Request(ctx, userID, req.Username); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// AcceptFriendRequest 接受好友请求
// POST /v1/friends/requests/:user_id/accept
func AcceptFriendRequest(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	requesterID, ok := pathID(ctx, c, "user_id")
	if !ok {
		return
	}

	if err := service.Friend().Accept(ctx, userID, requesterID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// DeclineFriendRequest 拒绝好友请求
// POST /v1/friends/requests/:user_id/decline
func DeclineFriendRequest(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	requesterID, ok := pathID(ctx, c, "user_id")
	if !ok {
		return
	}

	if err := service.Friend().Decline(ctx, userID, requesterID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// RemoveFriend 解除好友关系
// DELETE /v1/friends/:user_id
func RemoveFriend(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	friendID, ok := pathID(ctx, c, "user_id")
	if !ok {
		return
	}

	if err := service.Friend().Remove(ctx, userID, friendID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// ListFriends 好友列表
// GET /v1/friends
func ListFriends(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	result, err := service.Friend().ListFriends(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// ListFriendRequests 待处理的好友请求
// GET /v1/friends/requests
func ListFriendRequests(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	result, err := service.Friend().ListRequests(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
