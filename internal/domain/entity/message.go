// Package entity 定义领域实体
package entity

import "strings"

// 作者哨兵值
const (
	AuthorThoughts = "thoughts"
	AuthorNarrator = "narrator"
	AuthorSystem   = "system"
)

// Message 一轮对白或旁白，按时间顺序排列；Author 为自由文本
type Message struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Attributed 返回带作者前缀的内容，作者为空时仅返回内容
func (m Message) Attributed() string {
	if m.Author == "" {
		return m.Content
	}
	return m.Author + ": " + m.Content
}

// IsBlank 判断消息内容是否为空白
func (m Message) IsBlank() bool {
	return strings.TrimSpace(m.Content) == ""
}
