package entity

import "time"

// ImageSettings 前端的图片生成设置
type ImageSettings struct {
	Enabled         bool   `json:"enabled"`
	Mode            string `json:"mode"`
	IntervalSeconds int    `json:"interval_seconds"`
}

// DefaultImageSettings 默认图片生成设置
func DefaultImageSettings() ImageSettings {
	return ImageSettings{Enabled: true, Mode: "after_chat", IntervalSeconds: 30}
}

// StorySession 一次故事会话的完整状态
type StorySession struct {
	ID               string              `json:"id"`
	ChatHistory      []Message           `json:"chatHistory"`
	ImageHistory     []ImageHistoryEntry `json:"imageHistory"`
	Keywords         []Keyword           `json:"keywords"`
	SelectedKeywords []string            `json:"selectedKeywords"`
	ImageSettings    ImageSettings       `json:"imageSettings"`
	SelectedAuthor   string              `json:"selectedAuthor"`
	UpdatedAt        time.Time           `json:"updatedAt"`

	// Reactions 图片反馈，单独存储，读取时合并
	Reactions map[string]ImageReaction `json:"reactions,omitempty"`
}

// NewStorySession 创建空会话
func NewStorySession(id string) *StorySession {
	return &StorySession{
		ID:               id,
		ChatHistory:      []Message{},
		ImageHistory:     []ImageHistoryEntry{},
		Keywords:         []Keyword{},
		SelectedKeywords: []string{},
		ImageSettings:    DefaultImageSettings(),
		UpdatedAt:        time.Now().UTC(),
	}
}
