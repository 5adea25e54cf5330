package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"z-story-ai-api/internal/domain/entity"
	llmctx "z-story-ai-api/internal/domain/service"
	"z-story-ai-api/internal/workflow/node"
	"z-story-ai-api/internal/workflow/port"
	"z-story-ai-api/pkg/logger"
)

// StructuredGenerator 基于 Eino 的结构化输出实现
// 优先使用 response_format=json_schema；提供商不支持时降级为纯 Prompt 约束
type StructuredGenerator struct {
	factory port.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*port.StructuredRequest, string]
	chainErr  error
}

var _ port.StructuredGenerator = (*StructuredGenerator)(nil)

// NewStructuredGenerator 创建结构化输出生成器
func NewStructuredGenerator(factory port.ChatModelFactory) *StructuredGenerator {
	return &StructuredGenerator{factory: factory}
}

// Generate 调用模型并将输出解码到 out
func (g *StructuredGenerator) Generate(ctx context.Context, req *port.StructuredRequest, out any) error {
	if g == nil || g.factory == nil {
		return fmt.Errorf("llm factory not configured")
	}
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if len(req.Turns) == 0 {
		return fmt.Errorf("request has no turns")
	}

	chain, err := g.getChain()
	if err != nil {
		return err
	}
	raw, err := chain.Invoke(ctx, req)
	if err != nil {
		return err
	}
	return node.DecodeJSON(raw, out)
}

type structuredState struct {
	Req      *port.StructuredRequest
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (g *StructuredGenerator) getChain() (compose.Runnable[*port.StructuredRequest, string], error) {
	g.chainOnce.Do(func() {
		g.chain, g.chainErr = g.buildChain(context.Background())
	})
	return g.chain, g.chainErr
}

func (g *StructuredGenerator) buildChain(ctx context.Context) (compose.Runnable[*port.StructuredRequest, string], error) {
	chain := compose.NewChain[*port.StructuredRequest, string]()

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, req *port.StructuredRequest) (*structuredState, error) {
			return &structuredState{
				Req:      req,
				Messages: BuildMessages(req.System, req.Turns),
			}, nil
		}),
		compose.WithNodeName("structured.messages"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *structuredState) (*structuredState, error) {
			req := st.Req
			ctx = llmctx.WithWorkflowProvider(ctx, req.Workflow, req.Provider)

			chatModel, err := g.factory.Get(ctx, req.Provider)
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildOptions(req, true)...)
			if err != nil && node.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"workflow", req.Workflow,
					"provider", req.Provider,
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildOptions(req, false)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("structured.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *structuredState) (string, error) {
			content := strings.TrimSpace(st.OutMsg.Content)
			if content == "" {
				return "", fmt.Errorf("empty llm content")
			}
			return content, nil
		}),
		compose.WithNodeName("structured.finalize"),
	)

	return chain.Compile(ctx, compose.WithGraphName("structured_generate_chain"))
}

// BuildMessages 将系统提示与对话轮次转换为 Eino 消息
func BuildMessages(system string, turns []entity.ChatTurn) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(turns)+1)
	if s := strings.TrimSpace(system); s != "" {
		msgs = append(msgs, schema.SystemMessage(s))
	}
	for _, t := range turns {
		switch t.Role {
		case entity.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(t.Content, nil))
		case entity.RoleSystem:
			msgs = append(msgs, schema.SystemMessage(t.Content))
		default:
			msgs = append(msgs, schema.UserMessage(t.Content))
		}
	}
	return msgs
}

func buildOptions(req *port.StructuredRequest, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 2)
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if enableSchema && req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = "structured_output"
		}
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   name,
					"strict": false,
					"schema": req.Schema,
				},
			},
		}))
	}
	return opts
}
