// Package renderer 负责把聊天记录渲染成终端文本。
package renderer

import (
	"fmt"
	"strings"

	"ddokdoc/chat"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// MessageRenderer 聊天消息渲染器。
// 助手回复按 Markdown 渲染（后端会返回 **加粗** 标记），用户消息原样展示。
type MessageRenderer struct {
	markdownRenderer *glamour.TermRenderer
	styles           *MessageStyles
	viewportWidth    int
}

// NewMessageRenderer 创建消息渲染器
func NewMessageRenderer() *MessageRenderer {
	// Dracula 主题，禁用自动换行，由外部控制宽度
	markdownRenderer, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(0),
	)
	return &MessageRenderer{
		markdownRenderer: markdownRenderer,
		styles:           DefaultMessageStyles(),
	}
}

// SetViewportWidth 设置视口宽度
func (r *MessageRenderer) SetViewportWidth(width int) {
	r.viewportWidth = width
}

// RenderMessages 渲染整个会话。
// typing 为真时在末尾追加"正在输入"指示行；showSources 控制出处是否展开。
func (r *MessageRenderer) RenderMessages(messages []chat.Message, typing bool, docName string, showSources bool) string {
	var sb strings.Builder

	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(r.RenderMessage(msg, showSources))
	}

	if typing {
		if len(messages) > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(r.styles.Assistant.Render("똑디봇"))
		sb.WriteString("\n")
		sb.WriteString(r.styles.Typing.Render(fmt.Sprintf("... %s 문서 기준 답변 생성 중", docName)))
	}

	content := sb.String()
	if r.viewportWidth > 0 {
		return lipgloss.NewStyle().Width(r.viewportWidth).Render(content)
	}
	return content
}

// RenderMessage 渲染单条消息
func (r *MessageRenderer) RenderMessage(msg chat.Message, showSources bool) string {
	var sb strings.Builder

	switch msg.Role {
	case chat.RoleUser:
		sb.WriteString(r.styles.User.Render("ME"))
		sb.WriteString("\n")
		sb.WriteString(msg.Content)
	case chat.RoleAssistant:
		sb.WriteString(r.styles.Assistant.Render("똑디봇"))
		sb.WriteString("\n")
		sb.WriteString(r.renderMarkdown(msg.Content))
		if msg.Source != "" {
			sb.WriteString("\n")
			sb.WriteString(r.styles.SourceTag.Render("[문서출처]"))
			if showSources {
				sb.WriteString("\n")
				sb.WriteString(r.styles.Source.Render(msg.Source))
			}
		}
	}

	return sb.String()
}

// renderMarkdown Markdown 渲染失败时退回原文
func (r *MessageRenderer) renderMarkdown(content string) string {
	if r.markdownRenderer == nil {
		return content
	}
	rendered, err := r.markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
