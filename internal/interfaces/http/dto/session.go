package dto

import (
	"z-story-ai-api/internal/domain/entity"
)

// SaveSessionRequest 保存会话请求
type SaveSessionRequest struct {
	ChatHistory      []entity.Message           `json:"chatHistory"`
	ImageHistory     []entity.ImageHistoryEntry `json:"imageHistory"`
	Keywords         []entity.Keyword           `json:"keywords"`
	SelectedKeywords []string                   `json:"selectedKeywords"`
	ImageSettings    *entity.ImageSettings      `json:"imageSettings"`
	SelectedAuthor   string                     `json:"selectedAuthor"`
}

// ToEntity 转换为会话实体，ID 由路径参数决定
func (r *SaveSessionRequest) ToEntity() *entity.StorySession {
	sess := &entity.StorySession{
		ChatHistory:      r.ChatHistory,
		ImageHistory:     r.ImageHistory,
		Keywords:         r.Keywords,
		SelectedKeywords: r.SelectedKeywords,
		SelectedAuthor:   r.SelectedAuthor,
	}
	if r.ImageSettings != nil {
		sess.ImageSettings = *r.ImageSettings
	}
	return sess
}
