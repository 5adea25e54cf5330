// Package image 实现图像提示词推导、图像生成与 ComfyUI 工作流出图
package image

import (
	"context"
	"fmt"
	"strings"

	"z-story-ai-api/internal/application/story"
	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/workflow/port"
	workflowprompt "z-story-ai-api/internal/workflow/prompt"
	"z-story-ai-api/pkg/logger"
	"z-story-ai-api/pkg/metrics"
)

const (
	workflowImagePrompt = "image_prompt"

	// recentImagePrompts 作为上下文附加的历史图片提示词数量
	recentImagePrompts = 3
)

// PromptOptions 提示词推导配置
type PromptOptions struct {
	Provider  string
	MaxTokens int
}

// PromptDeriver 根据故事历史推导图像提示词
type PromptDeriver struct {
	generator port.StructuredGenerator
	prompts   *workflowprompt.Registry
	provider  string
	maxTokens int
}

// NewPromptDeriver 创建提示词推导器
func NewPromptDeriver(generator port.StructuredGenerator, prompts *workflowprompt.Registry, opts PromptOptions) *PromptDeriver {
	if prompts == nil {
		prompts = workflowprompt.NewRegistry()
	}
	return &PromptDeriver{
		generator: generator,
		prompts:   prompts,
		provider:  opts.Provider,
		maxTokens: opts.MaxTokens,
	}
}

// DerivePrompt 推导图像提示词，任何失败都返回占位提示词
func (d *PromptDeriver) DerivePrompt(ctx context.Context, history []entity.Message, imageHistory []entity.ImageHistoryEntry, systemPrompt string) entity.ImagePrompt {
	p, err := d.derive(ctx, history, imageHistory, systemPrompt)
	if err != nil {
		logger.Error(ctx, "error generating image prompt", err, "history_len", len(history))
		metrics.ImagePromptTotal.WithLabelValues("placeholder").Inc()
		return entity.PlaceholderPrompt()
	}
	metrics.ImagePromptTotal.WithLabelValues("success").Inc()
	logger.Info(ctx, "generated structured image prompt", "positive_len", len(p.Positive), "negative_len", len(p.Negative))
	return p
}

func (d *PromptDeriver) derive(ctx context.Context, history []entity.Message, imageHistory []entity.ImageHistoryEntry, systemPrompt string) (entity.ImagePrompt, error) {
	if d == nil || d.generator == nil {
		return entity.ImagePrompt{}, fmt.Errorf("structured generator not configured")
	}

	system := systemPrompt
	if strings.TrimSpace(system) == "" {
		var err error
		system, err = d.prompts.System(ctx, workflowprompt.PromptImagePromptV1, nil)
		if err != nil {
			return entity.ImagePrompt{}, err
		}
	}
	system += RecentImageContext(imageHistory)

	var scene entity.SceneDescription
	err := d.generator.Generate(ctx, &port.StructuredRequest{
		Workflow:   workflowImagePrompt,
		Provider:   d.provider,
		System:     system,
		Turns:      story.FormatHistory(history),
		SchemaName: "image_prompt_details",
		Schema:     sceneJSONSchema(),
		MaxTokens:  d.maxTokens,
	}, &scene)
	if err != nil {
		return entity.ImagePrompt{}, err
	}
	if !scene.IsComplete() {
		return entity.ImagePrompt{}, fmt.Errorf("scene description missing required fields")
	}
	return scene.ToPrompt(), nil
}

// RecentImageContext 最近若干张图片提示词组成的上下文，无历史时为空串
func RecentImageContext(imageHistory []entity.ImageHistoryEntry) string {
	if len(imageHistory) == 0 {
		return ""
	}
	recent := imageHistory
	if len(recent) > recentImagePrompts {
		recent = recent[len(recent)-recentImagePrompts:]
	}
	lines := make([]string, 0, len(recent))
	for _, img := range recent {
		lines = append(lines, "- "+img.Prompt)
	}
	return "\nRecent image prompts:\n" + strings.Join(lines, "\n")
}

func sceneJSONSchema() map[string]any {
	fields := []struct{ name, desc string }{
		{"style", "Overall image style, genre, or artistic technique (e.g. photorealistic, oil painting, digital art, anime, film noir)"},
		{"characters", "Comprehensive description of main characters, including age, gender, body type, hair, eyes, facial features and distinguishing marks"},
		{"clothing_and_accessories", "Detailed description of characters' attire, fabrics, colors, patterns and all accessories or props"},
		{"expressions_and_poses", "Facial expressions, body language, gestures and poses, including emotional states and interactions"},
		{"scene", "Setting including time of day, season, weather, architecture, natural elements and significant objects"},
		{"lighting", "Lighting source, intensity, color temperature, shadows, highlights and special effects"},
		{"camera", "Camera angle, shot type, lens, depth of field and any camera movement"},
		{"additional_details", "Extra visual elements, textures, colors, atmosphere, mood or thematic elements"},
		{"negative_prompt", "Elements to avoid in the image, such as specific objects, styles or characteristics"},
	}

	props := make(map[string]any, len(fields))
	required := make([]any, 0, len(fields))
	for _, f := range fields {
		props[f.name] = map[string]any{"type": "string", "description": f.desc}
		required = append(required, f.name)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             required,
		"properties":           props,
	}
}
