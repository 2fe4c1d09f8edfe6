package entity

type Sender string

const (
	SenderAI   Sender = "AI"
	SenderUser Sender = "USER"
)

type ChatMessage struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role    MessageRole
	Content string
}
