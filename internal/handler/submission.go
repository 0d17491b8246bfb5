package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/internal/service"
	"TeatimeAuthority/pkg/response"
)

// GetTodaySubmission 查询今日茶歇状态，客户端打开时加载
// GET /v1/submissions/today
func GetTodaySubmission(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	result, err := service.Submission().GetToday(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SubmitTea 在窗口内提交茶照，触发异步识别
// POST /v1/submissions/today
func SubmitTea(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	var req dto.SubmitTeaRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Submission().Submit(ctx, userID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// CancelSubmission 撤回识别中的提交，窗口未关时可重拍
// POST /v1/submissions/today/cancel
func CancelSubmission(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	if err := service.Submission().Cancel(ctx, userID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}

// GetVerificationProgress 轮询识别进度
// GET /v1/submissions/today/progress
func GetVerificationProgress(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	result, err := service.Submission().GetProgress(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetSubmissionHistory 查询历史提交记录
// GET /v1/submissions/history
func GetSubmissionHistory(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	var q dto.SubmissionHistoryQuery
	if err := c.BindAndValidate(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Submission().History(ctx, userID, &q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
