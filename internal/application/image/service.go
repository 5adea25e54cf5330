package image

import (
	"context"
	"encoding/json"

	"z-story-ai-api/internal/domain/entity"
	apperrors "z-story-ai-api/pkg/errors"
)

// GenerateRequest 图像生成请求
type GenerateRequest struct {
	History      []entity.Message
	ImageHistory []entity.ImageHistoryEntry
	SystemPrompt string
}

// ComfyRequest ComfyUI 工作流请求
type ComfyRequest struct {
	GenerateRequest
	Workflow            json.RawMessage
	PositivePlaceholder string
	NegativePlaceholder string
}

// Result 图像生成结果，Prompt 为正向提示词
type Result struct {
	URLs   []string
	Prompt string
}

// Service 组合提示词推导与出图
type Service struct {
	deriver   *PromptDeriver
	generator *Generator
	comfy     *ComfyRunner
}

// NewService 创建图像服务，comfy 为空表示未启用工作流出图
func NewService(deriver *PromptDeriver, generator *Generator, comfy *ComfyRunner) *Service {
	return &Service{deriver: deriver, generator: generator, comfy: comfy}
}

// Generate 推导提示词后调用图像服务
func (s *Service) Generate(ctx context.Context, req *GenerateRequest) (*Result, error) {
	prompt := s.deriver.DerivePrompt(ctx, req.History, req.ImageHistory, req.SystemPrompt)
	urls, err := s.generator.GenerateImages(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &Result{URLs: urls, Prompt: prompt.Positive}, nil
}

// GenerateComfy 推导提示词后填充工作流并执行
func (s *Service) GenerateComfy(ctx context.Context, req *ComfyRequest) (*Result, error) {
	if s.comfy == nil {
		return nil, apperrors.New(apperrors.CodeServiceUnavailable, "comfy workflow generation is disabled")
	}
	if len(req.Workflow) == 0 || !json.Valid(req.Workflow) {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "workflow must be a json document")
	}

	prompt := s.deriver.DerivePrompt(ctx, req.History, req.ImageHistory, req.SystemPrompt)
	workflow, err := RenderWorkflow(req.Workflow, prompt, req.PositivePlaceholder, req.NegativePlaceholder)
	if err != nil {
		return nil, err
	}
	urls, err := s.comfy.Run(ctx, workflow)
	if err != nil {
		return nil, err
	}
	return &Result{URLs: urls, Prompt: prompt.Positive}, nil
}
