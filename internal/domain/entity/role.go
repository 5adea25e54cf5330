package entity

// Role 对话角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatTurn 发送给对话补全接口的一轮消息
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
