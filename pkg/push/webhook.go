package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// WebhookClient 将通知 POST 到推送网关
type WebhookClient struct {
	httpClient *client.Client
	url        string
}

func NewWebhookClient(url string) (*WebhookClient, error) {
	if url == "" {
		return nil, fmt.Errorf("push webhook url is not configured")
	}

	hc, err := client.NewClient(
		client.WithDialTimeout(5*time.Second),
		client.WithClientReadTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return &WebhookClient{httpClient: hc, url: url}, nil
}

func (w *WebhookClient) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer func() {
		protocol.ReleaseRequest(req)
		protocol.ReleaseResponse(resp)
	}()

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(w.url)
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	if err := w.httpClient.Do(ctx, req, resp); err != nil {
		return fmt.Errorf("push webhook request failed: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("push webhook returned status %d", resp.StatusCode())
	}

	return nil
}
