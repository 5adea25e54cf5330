// Package service 提供跨层共享的领域上下文约定
package service

import (
	"context"
	"strings"
)

type llmCtxKey struct{ name string }

var (
	llmCtxKeyWorkflow = llmCtxKey{"llm_workflow"}
	llmCtxKeyProvider = llmCtxKey{"llm_provider"}
)

const unknown = "unknown"

// WithWorkflowProvider 在 context 中标记当前 LLM 调用所属工作流与提供商
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	if w := strings.TrimSpace(workflow); w != "" {
		ctx = context.WithValue(ctx, llmCtxKeyWorkflow, w)
	}
	if p := strings.TrimSpace(provider); p != "" {
		ctx = context.WithValue(ctx, llmCtxKeyProvider, p)
	}
	return ctx
}

// WorkflowFromContext 读取工作流名，缺省为 unknown
func WorkflowFromContext(ctx context.Context) string {
	return stringValue(ctx, llmCtxKeyWorkflow)
}

// ProviderFromContext 读取提供商名，缺省为 unknown
func ProviderFromContext(ctx context.Context) string {
	return stringValue(ctx, llmCtxKeyProvider)
}

func stringValue(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknown
	}
	s, ok := ctx.Value(key).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}
