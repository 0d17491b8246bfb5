package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/internal/service"
	"TeatimeAuthority/pkg/response"
)

// GetMyProfile 获取自己的资料
// GET /v1/users/me
func GetMyProfile(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	result, err := service.User().GetProfile(ctx, userID, true)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// UpdateMyProfile 更新自己的资料
// PATCH /v1/users/me
func UpdateMyProfile(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.User().UpdateProfile(ctx, userID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetUserProfile 查看他人资料
// GET /v1/users/:user_id
func GetUserProfile(ctx context.Context, c *app.RequestContext) {
	if _, ok := currentUserID(ctx, c); !ok {
		return
	}

	targetID, ok := pathID(ctx, c, "user_id")
	if !ok {
		return
	}

	result, err := service.User().GetProfile(ctx, targetID, false)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SearchUsers 按用户名前缀搜索用户
// GET /v1/users/search
func SearchUsers(ctx context.Context, c *app.RequestContext) {
	if _, ok := currentUserID(ctx, c); !ok {
		return
	}

	var q dto.UserSearchQuery
	if err := c.BindAndValidate(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.User().Search(ctx, q.Query, q.Limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
