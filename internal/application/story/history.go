// Package story 实现故事续写：历史格式化与结构化续写请求
package story

import "z-story-ai-api/internal/domain/entity"

// EmptyHistoryPlaceholder 历史为空时的占位内容（对话与图像流程共用）
const EmptyHistoryPlaceholder = "An empty placeholder image"

// FormatHistory 将线性历史转换为严格交替角色的消息序列。
// 最后一条固定为 user，向前依次交替；不修改入参。
func FormatHistory(history []entity.Message) []entity.ChatTurn {
	if len(history) == 0 {
		return []entity.ChatTurn{{Role: entity.RoleUser, Content: EmptyHistoryPlaceholder}}
	}

	startsWithUser := len(history)%2 == 1
	turns := make([]entity.ChatTurn, len(history))
	for i, msg := range history {
		role := entity.RoleAssistant
		if (i%2 == 0) == startsWithUser {
			role = entity.RoleUser
		}
		turns[i] = entity.ChatTurn{Role: role, Content: msg.Attributed()}
	}
	return turns
}
