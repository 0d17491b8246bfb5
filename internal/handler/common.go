package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"TeatimeAuthority/internal/middleware"
	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/response"
)

// currentUserID 从认证上下文取当前用户的 public_id，失败时已写入错误响应
func currentUserID(ctx context.Context, c *app.RequestContext) (int64, bool) {
	userID, ok := middleware.GetUserIDInt64(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.InvalidUserID)
		return 0, false
	}
	return userID, true
}

// pathID 解析路径参数中的 public_id，失败时已写入错误响应
func pathID(ctx context.Context, c *app.RequestContext, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(ctx, c, errors.InvalidRequest)
		return 0, false
	}
	return id, true
}
