package entity

import (
	"fmt"
	"strings"
)

// StoryContinuationRequest 故事续写请求
// History 为只读输入，任何处理都不得原地修改
type StoryContinuationRequest struct {
	Content          string    `json:"content"`
	Author           string    `json:"author"`
	History          []Message `json:"history"`
	SelectedKeywords []string  `json:"selectedKeywords"`
	SystemPrompt     string    `json:"systemPrompt,omitempty"`
}

// StoryContinuationResponse 故事续写结果，成功时 Messages 非空
type StoryContinuationResponse struct {
	Messages []Message `json:"messages"`
	Keywords []Keyword `json:"keywords"`
}

const (
	// FallbackMessage 续写失败时替代的系统消息
	FallbackMessage = "I apologize, but something went wrong while continuing the story. Please try again."
	// FallbackKeyword 续写失败时替代的关键词
	FallbackKeyword = "story-interrupted"
)

// NewFallbackContinuation 构造续写失败时的兜底响应
func NewFallbackContinuation() *StoryContinuationResponse {
	return &StoryContinuationResponse{
		Messages: []Message{{Author: AuthorSystem, Content: FallbackMessage}},
		Keywords: []Keyword{{Category: "plot", Text: FallbackKeyword}},
	}
}

// DropBlankMessages 去掉内容为空白的消息
func (r *StoryContinuationResponse) DropBlankMessages() {
	kept := r.Messages[:0]
	for _, m := range r.Messages {
		if !m.IsBlank() {
			kept = append(kept, m)
		}
	}
	r.Messages = kept
}

// Validate 校验模型返回的续写结构
func (r *StoryContinuationResponse) Validate(categories KeywordCategories) error {
	if r == nil {
		return fmt.Errorf("continuation is nil")
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("continuation has no messages")
	}
	for i, kw := range r.Keywords {
		if err := categories.Validate(kw); err != nil {
			return fmt.Errorf("keyword %d: %w", i, err)
		}
	}
	return nil
}

// UserTurn 构造调用方本轮输入的消息，带上已选关键词标注
// label 为标注前缀，如 "selected keywords" / "Selected Keywords"
func (r *StoryContinuationRequest) UserTurn(label string) string {
	var b strings.Builder
	b.WriteString(r.Content)
	if len(r.SelectedKeywords) > 0 {
		b.WriteString("\n\n* ")
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(strings.Join(r.SelectedKeywords, ", "))
		b.WriteString(" *")
	}
	return b.String()
}
