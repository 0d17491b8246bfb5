package handler

import (
	"context"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"TeatimeAuthority/pkg/errors"
	"TeatimeAuthority/pkg/imagestore"
	"TeatimeAuthority/pkg/response"
)

// 上传图片的体积上限，5MB
const maxImageSize = 5 << 20

// UploadImage 上传图片，返回后续提交引用的不透明 key
// POST /v1/images
func UploadImage(ctx context.Context, c *app.RequestContext) {
	if _, ok := currentUserID(ctx, c); !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	if fileHeader.Size > maxImageSize {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(ctx, c, errors.InvalidRequest)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	key, err := imagestore.Get().Save(ctx, data, contentType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]string{
		"image_ref": key,
		"image_url": imagestore.Get().URL(key),
	})
}
