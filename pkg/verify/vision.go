package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"TeatimeAuthority/config"
)

// VisionClient 调用外部视觉审核服务的 HTTP 客户端
type VisionClient struct {
	httpClient *client.Client
	endpoint   string
	apiKey     string
	timeout    time.Duration
}

type visionRequest struct {
	Context             string `json:"context"`
	ImageRef            string `json:"image_ref"`
	ExpectedAmountPence int64  `json:"expected_amount_pence,omitempty"`
}

type visionResponse struct {
	Valid    bool   `json:"valid"`
	Feedback string `json:"feedback"`
}

func NewVisionClient() (*VisionClient, error) {
	cfg := config.Cfg
	if cfg.VisionEndpoint == "" {
		return nil, fmt.Errorf("vision endpoint is not configured")
	}

	timeout := time.Duration(cfg.VisionTimeoutSeconds) * time.Second
	hc, err := client.NewClient(
		client.WithDialTimeout(5*time.Second),
		client.WithClientReadTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return &VisionClient{
		httpClient: hc,
		endpoint:   cfg.VisionEndpoint,
		apiKey:     cfg.VisionAPIKey,
		timeout:    timeout,
	}, nil
}

// Verify 同步调用审核服务。远端不回报进度，只在发起和完成时各回调一次。
func (v *VisionClient) Verify(ctx context.Context, r Request, progress ProgressFunc) (Result, error) {
	body, err := json.Marshal(visionRequest{
		Context:             string(r.Context),
		ImageRef:            r.ImageRef,
		ExpectedAmountPence: r.ExpectedAmountPence,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal vision request: %w", err)
	}

	if progress != nil {
		progress(0.1)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(v.endpoint + "/v1/verify")
	req.Header.SetContentTypeBytes([]byte("application/json"))
	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}
	req.SetBody(body)

	reqCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	if err := v.httpClient.Do(reqCtx, req, resp); err != nil {
		return Result{}, fmt.Errorf("vision request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return Result{}, fmt.Errorf("vision service returned status %d", resp.StatusCode())
	}

	var vr visionResponse
	if err := json.Unmarshal(resp.Body(), &vr); err != nil {
		return Result{}, fmt.Errorf("failed to decode vision response: %w", err)
	}

	if progress != nil {
		progress(1)
	}

	return Result{Valid: vr.Valid, Feedback: vr.Feedback}, nil
}
