// Package imagegen 提供图像生成服务客户端
package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"z-story-ai-api/internal/config"
)

var tracer = otel.Tracer("imagegen")

// Client fal.ai 同步推理接口客户端
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Images *[]struct {
		URL         string `json:"url"`
		ContentType string `json:"content_type,omitempty"`
	} `json:"images"`
}

func NewClient(cfg *config.ImageConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = "fal-ai/flux/schnell"
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   strings.Trim(model, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateImages 调用模型生成图片，返回远程图片地址
// 响应缺少 images 字段或为空时返回错误
func (c *Client) GenerateImages(ctx context.Context, prompt string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "imagegen.Generate",
		trace.WithAttributes(attribute.String("imagegen.model", c.model)))
	defer span.End()

	urls, err := c.generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("imagegen.images", len(urls)))
	return urls, nil
}

func (c *Client) generate(ctx context.Context, prompt string) ([]string, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("image api base url is empty")
	}
	reqBody, err := json.Marshal(&generateRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal image request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+c.model, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Key "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return nil, fmt.Errorf("image request failed: status=%d body=%s", httpResp.StatusCode, strings.TrimSpace(string(body)))
	}

	var resp generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode image response: %w", err)
	}
	if resp.Images == nil {
		return nil, fmt.Errorf("invalid response from image api: missing images")
	}

	urls := make([]string, 0, len(*resp.Images))
	for _, img := range *resp.Images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("invalid response from image api: no images")
	}
	return urls, nil
}
