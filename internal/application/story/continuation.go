package story

import (
	"context"
	"fmt"
	"strings"
	"time"

	"z-story-ai-api/internal/domain/entity"
	"z-story-ai-api/internal/workflow/port"
	workflowprompt "z-story-ai-api/internal/workflow/prompt"
	"z-story-ai-api/pkg/logger"
	"z-story-ai-api/pkg/metrics"
)

const (
	workflowContinue = "story_continue"

	// selectedKeywordsLabel 发送给模型的关键词标注
	selectedKeywordsLabel = "selected keywords"
)

// Options 续写配置
type Options struct {
	Provider          string
	KeywordCategories []string
	MaxTokens         int
}

// Continuer 故事续写请求器
type Continuer struct {
	generator  port.StructuredGenerator
	prompts    *workflowprompt.Registry
	categories entity.KeywordCategories
	provider   string
	maxTokens  int
}

// NewContinuer 创建续写请求器
func NewContinuer(generator port.StructuredGenerator, prompts *workflowprompt.Registry, opts Options) *Continuer {
	categories := entity.NewKeywordCategories(opts.KeywordCategories)
	if len(categories) == 0 {
		categories = entity.DefaultKeywordCategories
	}
	if prompts == nil {
		prompts = workflowprompt.NewRegistry()
	}
	return &Continuer{
		generator:  generator,
		prompts:    prompts,
		categories: categories,
		provider:   opts.Provider,
		maxTokens:  opts.MaxTokens,
	}
}

// Categories 返回生效的关键词分类闭集
func (c *Continuer) Categories() entity.KeywordCategories {
	return c.categories
}

// ContinueStory 续写故事。
// 提供商错误、无法解析或不符合 schema 的输出都会被记录并替换为兜底响应，不向调用方返回错误。
func (c *Continuer) ContinueStory(ctx context.Context, req *entity.StoryContinuationRequest) *entity.StoryContinuationResponse {
	start := time.Now()
	defer func() {
		metrics.StoryContinuationDuration.Observe(time.Since(start).Seconds())
	}()

	resp, err := c.continueStory(ctx, req)
	if err != nil {
		logger.Error(ctx, "story continuation failed, returning fallback", err,
			"history_len", len(req.History),
			"selected_keywords", len(req.SelectedKeywords),
		)
		metrics.StoryContinuationTotal.WithLabelValues("fallback").Inc()
		return entity.NewFallbackContinuation()
	}

	metrics.StoryContinuationTotal.WithLabelValues("success").Inc()
	logger.Info(ctx, "story continuation generated",
		"messages", len(resp.Messages),
		"keywords", len(resp.Keywords),
	)
	return resp
}

func (c *Continuer) continueStory(ctx context.Context, req *entity.StoryContinuationRequest) (*entity.StoryContinuationResponse, error) {
	if c == nil || c.generator == nil {
		return nil, fmt.Errorf("structured generator not configured")
	}

	system, err := c.systemPrompt(ctx, req.SystemPrompt)
	if err != nil {
		return nil, err
	}

	turns := BuildContinuationTurns(req)
	logger.Info(ctx, "processing chat message", "messages", len(turns))

	var out entity.StoryContinuationResponse
	err = c.generator.Generate(ctx, &port.StructuredRequest{
		Workflow:   workflowContinue,
		Provider:   c.provider,
		System:     system,
		Turns:      turns,
		SchemaName: "story_continuation",
		Schema:     continuationJSONSchema(c.categories),
		MaxTokens:  c.maxTokens,
	}, &out)
	if err != nil {
		return nil, err
	}
	out.DropBlankMessages()
	if err := out.Validate(c.categories); err != nil {
		return nil, fmt.Errorf("continuation failed schema validation: %w", err)
	}
	if out.Keywords == nil {
		out.Keywords = []entity.Keyword{}
	}
	return &out, nil
}

// BuildContinuationTurns 格式化历史并追加本轮用户输入
func BuildContinuationTurns(req *entity.StoryContinuationRequest) []entity.ChatTurn {
	turns := FormatHistory(req.History)
	current := entity.Message{
		Author:  req.Author,
		Content: req.UserTurn(selectedKeywordsLabel),
	}
	return append(turns, entity.ChatTurn{Role: entity.RoleUser, Content: current.Attributed()})
}

func (c *Continuer) systemPrompt(ctx context.Context, custom string) (string, error) {
	if strings.TrimSpace(custom) != "" {
		return custom, nil
	}
	return c.prompts.System(ctx, workflowprompt.PromptStoryContinueV1, map[string]any{
		"keyword_categories": strings.Join(c.categories, ", "),
	})
}
