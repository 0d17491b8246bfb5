package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/internal/service"
	"TeatimeAuthority/pkg/response"
)

// GetFeed 好友茶照流，按时间倒序分页
// GET /v1/teas/feed
func GetFeed(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	var q dto.FeedQuery
	if err := c.BindAndValidate(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Tea().Feed(ctx, userID, &q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// LikeTeaPost 点赞茶照
// POST /v1/teas/:post_id/like
func LikeTeaPost(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	postID, ok := pathID(ctx, c, "post_id")
	if !ok {
		return
	}

	if err := service.Tea().Like(ctx, userID, postID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// UnlikeTeaPost 取消点赞
// DELETE /v1/teas/:post_id/like
func UnlikeTeaPost(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	postID, ok := pathID(ctx, c, "post_id")
	if !ok {
		return
	}

	if err := service.Tea().Unlike(ctx, userID, postID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// CreateComment 评论茶照
// POST /v1/teas/:post_id/comments
func CreateComment(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	postID, ok := pathID(ctx, c, "post_id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Tea().Comment(ctx, userID, postID, req.Content)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// ListComments 查看茶照评论
// GET /v1/teas/:post_id/comments
func ListComments(ctx context.Context, c *app.RequestContext) {
	if _, ok := currentUserID(ctx, c); !ok {
		return
	}

	postID, ok := pathID(ctx, c, "post_id")
	if !ok {
		return
	}

	result, err := service.Tea().ListComments(ctx, postID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
