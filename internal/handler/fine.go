package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TeatimeAuthority/internal/model/dto"
	"TeatimeAuthority/internal/service"
	"TeatimeAuthority/pkg/response"
)

// ListFines 查询自己的罚款
// GET /v1/fines
func ListFines(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	var q dto.FineListQuery
	if err := c.BindAndValidate(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Fine().List(ctx, userID, &q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// GetFine 查询单笔罚款详情
// GET /v1/fines/:fine_id
func GetFine(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	fineID, ok := pathID(ctx, c, "fine_id")
	if !ok {
		return
	}

	result, err := service.Fine().Get(ctx, userID, fineID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// PayFine 直接缴纳罚款
// POST /v1/fines/:fine_id/pay
func PayFine(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	fineID, ok := pathID(ctx, c, "fine_id")
	if !ok {
		return
	}

	result, err := service.Fine().Pay(ctx, userID, fineID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SubmitDonation 以慈善捐赠抵扣罚款，提交回执后异步核验
// POST /v1/fines/:fine_id/donations
func SubmitDonation(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(ctx, c)
	if !ok {
		return
	}

	fineID, ok := pathID(ctx, c, "fine_id")
	if !ok {
		return
	}

	var req dto.SubmitDonationRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Fine().SubmitDonation(ctx, userID, fineID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// ListCharities 返回可接受捐赠的慈善机构
// GET /v1/charities
func ListCharities(ctx context.Context, c *app.RequestContext) {
	charities := make([]dto.CharityData, 0, len(service.Charities))
	for _, name := range service.Charities {
		charities = append(charities, dto.CharityData{Name: name})
	}

	response.Success(ctx, c, charities)
}
