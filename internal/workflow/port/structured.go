package port

import (
	"context"

	"z-story-ai-api/internal/domain/entity"
)

// StructuredRequest 一次结构化输出调用
type StructuredRequest struct {
	// Workflow 用于指标与追踪的工作流名
	Workflow string
	// Provider 为空时使用默认提供商
	Provider string

	System string
	Turns  []entity.ChatTurn

	// SchemaName / Schema 对应 response_format.json_schema
	SchemaName string
	Schema     map[string]any

	MaxTokens int
}

// StructuredGenerator 请求模型按 schema 输出，并将结果解码到 out
type StructuredGenerator interface {
	Generate(ctx context.Context, req *StructuredRequest, out any) error
}
