package dto

import (
	"encoding/json"

	"z-story-ai-api/internal/application/image"
	"z-story-ai-api/internal/domain/entity"
)

// ImageGenerationRequest 图像生成请求
type ImageGenerationRequest struct {
	History      []entity.Message           `json:"history"`
	ImageHistory []entity.ImageHistoryEntry `json:"imageHistory"`
	SystemPrompt string                     `json:"systemPrompt,omitempty"`
}

// ToServiceRequest 转换为应用层请求
func (r *ImageGenerationRequest) ToServiceRequest() *image.GenerateRequest {
	return &image.GenerateRequest{
		History:      r.History,
		ImageHistory: r.ImageHistory,
		SystemPrompt: r.SystemPrompt,
	}
}

// ComfyWorkflowRequest ComfyUI 工作流生成请求
type ComfyWorkflowRequest struct {
	ImageGenerationRequest
	Workflow                  json.RawMessage `json:"workflow"`
	PositivePromptPlaceholder string          `json:"positivePromptPlaceholder"`
	NegativePromptPlaceholder string          `json:"negativePromptPlaceholder"`
}

// ToServiceRequest 转换为应用层请求
func (r *ComfyWorkflowRequest) ToServiceRequest() *image.ComfyRequest {
	return &image.ComfyRequest{
		GenerateRequest:     *r.ImageGenerationRequest.ToServiceRequest(),
		Workflow:            r.Workflow,
		PositivePlaceholder: r.PositivePromptPlaceholder,
		NegativePlaceholder: r.NegativePromptPlaceholder,
	}
}

// ImageResponse 图像生成响应
type ImageResponse struct {
	URLs   []string `json:"urls"`
	Prompt string   `json:"prompt"`
}

// NewImageResponse 构造响应，urls 始终输出为数组
func NewImageResponse(res *image.Result) *ImageResponse {
	urls := res.URLs
	if urls == nil {
		urls = []string{}
	}
	return &ImageResponse{URLs: urls, Prompt: res.Prompt}
}

// ImageReactionRequest 图片反馈请求
type ImageReactionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	ImageID   string `json:"imageId" binding:"required"`
	Reaction  string `json:"reaction" binding:"required"`
}
