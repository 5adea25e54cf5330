package dto

import (
	"strings"

	"z-story-ai-api/internal/domain/entity"
)

// ChatRequest 故事续写请求
type ChatRequest struct {
	Content          string           `json:"content"`
	Author           string           `json:"author"`
	History          []entity.Message `json:"history"`
	SelectedKeywords []string         `json:"selectedKeywords"`
	SystemPrompt     string           `json:"systemPrompt,omitempty"`
}

// ToEntity 转换为领域请求
func (r *ChatRequest) ToEntity() *entity.StoryContinuationRequest {
	return &entity.StoryContinuationRequest{
		Content:          r.Content,
		Author:           r.Author,
		History:          r.History,
		SelectedKeywords: r.SelectedKeywords,
		SystemPrompt:     r.SystemPrompt,
	}
}

// LLMResponse 续写结果
type LLMResponse struct {
	Messages []entity.Message `json:"messages"`
	Keywords []entity.Keyword `json:"keywords"`
}

// ChatResponse 续写响应，外层包一层 llm_response
type ChatResponse struct {
	LLMResponse LLMResponse `json:"llm_response"`
}

// NewChatResponse 构造响应，调用方本轮输入排在模型消息之前
func NewChatResponse(req *entity.StoryContinuationRequest, resp *entity.StoryContinuationResponse) *ChatResponse {
	userTurn := entity.Message{
		Author:  req.Author,
		Content: strings.TrimSpace(req.UserTurn("Selected Keywords")),
	}

	messages := make([]entity.Message, 0, len(resp.Messages)+1)
	messages = append(messages, userTurn)
	messages = append(messages, resp.Messages...)

	keywords := resp.Keywords
	if keywords == nil {
		keywords = []entity.Keyword{}
	}
	return &ChatResponse{LLMResponse: LLMResponse{Messages: messages, Keywords: keywords}}
}
