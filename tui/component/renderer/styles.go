package renderer

import (
	"github.com/charmbracelet/lipgloss"
)

// MessageStyles 聊天消息渲染样式配置
type MessageStyles struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	Typing    lipgloss.Style
	Source    lipgloss.Style
	SourceTag lipgloss.Style
	Error     lipgloss.Style
}

// DefaultMessageStyles 返回默认消息样式配置
func DefaultMessageStyles() *MessageStyles {
	return &MessageStyles{
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true),
		Typing:    lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).Italic(true),
		Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")).PaddingLeft(2),
		SourceTag: lipgloss.NewStyle().Foreground(lipgloss.Color("#2ac3de")).Underline(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
	}
}
