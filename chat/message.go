// Package chat 管理按文档划分的聊天记录，并驱动问答往返。
package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role 消息角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 聊天记录中的一条消息。追加后不再修改。
type Message struct {
	ID        string
	Role      Role
	Content   string
	Source    string // 助手消息可携带文档出处，默认折叠展示
	CreatedAt time.Time
}

// NewUserMessage 构造一条用户消息
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage 构造一条助手消息
func NewAssistantMessage(content, source string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Source:    source,
		CreatedAt: time.Now(),
	}
}

// Greeting 文档就绪后预置的欢迎消息
func Greeting(docName string) Message {
	return NewAssistantMessage(
		fmt.Sprintf("안녕하세요! 똑디봇입니다🤖\n\"%s\" 문서에 대해 무엇이든 물어보세요.", docName),
		"",
	)
}

// failureReply 聊天调用失败时追加的可见错误消息，避免这一轮对话无声丢失。
const failureReply = "죄송해요, 지금은 답변을 가져오지 못했어요. 잠시 후 다시 시도해 주세요."
